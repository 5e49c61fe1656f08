// Package config loads the signal configuration: phase durations,
// cadences, language, sound and logging. It is read once at startup and
// never written back.
package config

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"TrafficLight/phase"
)

// ContentReader defines the interface for reading configuration content.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// EnvConfig names a JSON file that overrides the embedded defaults.
const EnvConfig = "TRAFFICLIGHT_CONFIG"

// DefaultFile is the embedded default configuration.
const DefaultFile = "assets/default.json"

//go:embed assets/default.json
var content embed.FS

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the static configuration of the signal.
type Config struct {
	Durations   []int  `json:"durations"`
	Language    string `json:"language"`
	Sound       bool   `json:"sound"`
	LogLevel    string `json:"logLevel"`
	TickMillis  int    `json:"tickMillis"`
	BlinkMillis int    `json:"blinkMillis"`
	LogFile     string `json:"logFile"`
}

// Load reads name from reader on top of base and validates the result.
// Fields missing from the file keep their base value.
func Load(reader ContentReader, name string, base Config) (*Config, error) {
	data, err := reader.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	cfg := base
	cfg.Durations = append([]int(nil), base.Durations...)
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &cfg, nil
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	return Load(content, DefaultFile, Config{})
}

type osReader struct{}

func (osReader) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// LoadFromEnv returns the embedded defaults, overridden by the file named
// in TRAFFICLIGHT_CONFIG when it is set.
func LoadFromEnv() (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	path := strings.TrimSpace(os.Getenv(EnvConfig))
	if path == "" {
		return cfg, nil
	}
	return Load(osReader{}, path, *cfg)
}

// Validate checks durations and cadences.
func (c *Config) Validate() error {
	if len(c.Durations) != phase.Count {
		return fmt.Errorf("%w: want %d durations, got %d", ErrInvalidConfig, phase.Count, len(c.Durations))
	}
	if _, err := c.PhaseDurations(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.TickMillis <= 0 || c.BlinkMillis <= 0 {
		return fmt.Errorf("%w: tickMillis and blinkMillis must be positive", ErrInvalidConfig)
	}
	return nil
}

// PhaseDurations converts the duration list into a validated table seed.
func (c *Config) PhaseDurations() (phase.Durations, error) {
	var d phase.Durations
	if len(c.Durations) != phase.Count {
		return d, fmt.Errorf("%w: want %d durations", ErrInvalidConfig, phase.Count)
	}
	copy(d[:], c.Durations)
	return d, d.Validate()
}

// TickPeriod returns the phase clock cadence.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// BlinkPeriod returns the blink cadence.
func (c *Config) BlinkPeriod() time.Duration {
	return time.Duration(c.BlinkMillis) * time.Millisecond
}
