// Package audio plays a short synthesized chime whenever the signal
// enters a new phase.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"TrafficLight/light"
	"TrafficLight/phase"
)

const (
	sampleRate    = beep.SampleRate(44100)
	chimeDuration = 120 * time.Millisecond
)

// tones maps each phase to a chime frequency in Hz.
var tones = [phase.Count]float64{
	phase.Red:             440,
	phase.RedYellow:       523.25,
	phase.YellowPreGreen:  587.33,
	phase.Green:           659.25,
	phase.FlashingGreen:   783.99,
	phase.YellowPostGreen: 587.33,
}

// Tone returns the chime frequency of p.
func Tone(p phase.Phase) float64 {
	if !p.Valid() {
		return 0
	}
	return tones[p]
}

// Chime is an observer that plays a tone on every phase entry.
type Chime struct {
	light.BaseObserver

	mu          sync.Mutex
	logger      *zap.Logger
	volume      float64
	initialized bool
	play        func(beep.Streamer)
}

// NewChime creates a muted-until-initialized chime at the given volume
// (0 silences, 1 is full scale).
func NewChime(logger *zap.Logger, volume float64) *Chime {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chime{logger: logger, volume: volume, play: func(s beep.Streamer) { speaker.Play(s) }}
}

// Initialize sets up the speaker. Without it the chime stays silent.
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	c.initialized = true
	return nil
}

// OnPhaseEnter plays the tone of p.
func (c *Chime) OnPhaseEnter(p phase.Phase, seconds int) {
	c.mu.Lock()
	ready := c.initialized
	c.mu.Unlock()
	if !ready {
		return
	}

	s, err := c.streamer(p)
	if err != nil {
		c.logger.Warn("chime unavailable", zap.Stringer("phase", p), zap.Error(err))
		return
	}
	c.play(s)
}

func (c *Chime) streamer(p phase.Phase) (beep.Streamer, error) {
	freq := Tone(p)
	if freq == 0 {
		return nil, fmt.Errorf("no tone for %v", p)
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	tone := beep.Take(sampleRate.N(chimeDuration), sine)
	return volume(tone, c.volume), nil
}

func volume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
