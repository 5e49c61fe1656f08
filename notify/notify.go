// Package notify holds the logging side of the signal: logger
// construction and the observer that writes phase changes to the log.
package notify

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"TrafficLight/light"
	"TrafficLight/phase"
)

// NewLogger builds a console logger at the given level ("debug", "info",
// "warn", "error"). An empty level means info. Output goes to path, or to
// stderr when path is empty.
func NewLogger(level, path string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return cfg.Build()
}

// LogObserver writes every phase tick and run state change to a logger.
type LogObserver struct {
	light.BaseObserver
	logger *zap.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// OnPhaseTick logs the countdown.
func (o *LogObserver) OnPhaseTick(name string, remaining int) {
	o.logger.Info("phase changed",
		zap.String("phase", name),
		zap.Int("remaining", remaining))
}

// OnPhaseEnter logs the start of a phase.
func (o *LogObserver) OnPhaseEnter(p phase.Phase, seconds int) {
	o.logger.Debug("phase entered",
		zap.Int("index", int(p)),
		zap.Stringer("phase", p),
		zap.Int("seconds", seconds))
}

// OnRunStateChange logs transitions between stopped, running and paused.
func (o *LogObserver) OnRunStateChange(from, to light.RunState) {
	o.logger.Info("signal state",
		zap.Stringer("from", from),
		zap.Stringer("to", to))
}
