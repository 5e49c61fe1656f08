// Package main contains the desktop application wiring and the AppManager
// which coordinates the signal controller, the chime and the UI.
//
// Maintenance notes / tips:
//   - Concurrency model: every Start/Stop/Resume/Reset/Configure request
//     from the UI goes through control.Dispatcher, whose loop goroutine
//     also drives the controller's tickers. The controller serializes its
//     own state under a mutex, so widgets may read snapshots at any time.
//   - Observers (log sink, chime, main window) are called on the dispatcher
//     goroutine. Anything touching fyne objects must go through fyne.Do.
//   - EnqueueCommand drops a command when the channel stays full for the
//     dispatcher's enqueue timeout, to avoid blocking the UI.
package main

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TrafficLight/audio"
	"TrafficLight/config"
	"TrafficLight/control"
	"TrafficLight/light"
	"TrafficLight/notify"
)

// AppManager is the main application struct, holding all state.
type AppManager struct {
	logger     *zap.Logger
	controller *light.Controller
	dispatcher *control.Dispatcher
	chime      *audio.Chime
	subs       []uuid.UUID

	cmdCtx    context.Context
	cmdCancel context.CancelFunc
	done      chan error
}

// NewAppManager creates the controller and its observers from cfg.
func NewAppManager(cfg *config.Config, logger *zap.Logger) (*AppManager, error) {
	durations, err := cfg.PhaseDurations()
	if err != nil {
		return nil, err
	}

	controller, err := light.New(
		light.WithDurations(durations),
		light.WithPeriods(cfg.TickPeriod(), cfg.BlinkPeriod()),
		light.WithLogger(logger.Named("light")),
		light.WithObserver(notify.NewLogObserver(logger.Named("phase"))),
	)
	if err != nil {
		return nil, err
	}

	a := &AppManager{
		logger:     logger,
		controller: controller,
		dispatcher: control.NewDispatcher(controller, logger.Named("control")),
	}

	if cfg.Sound {
		a.chime = audio.NewChime(logger.Named("audio"), 0.4)
		if err := a.chime.Initialize(); err != nil {
			// Non-fatal, the signal runs without sound
			logger.Warn("audio disabled", zap.Error(err))
		} else {
			controller.Subscribe(a.chime)
		}
	}

	logger.Info("signal ready",
		zap.Ints("durations", cfg.Durations),
		zap.Duration("tick", cfg.TickPeriod()),
		zap.Duration("blink", cfg.BlinkPeriod()))
	return a, nil
}

// Start runs the command loop in the background.
func (a *AppManager) Start() {
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	a.done = make(chan error, 1)
	go func() {
		a.done <- a.dispatcher.Run(a.cmdCtx)
	}()
}

// Subscribe registers an additional observer, such as the main window.
// Shutdown removes it again.
func (a *AppManager) Subscribe(o light.Observer) {
	a.subs = append(a.subs, a.controller.Subscribe(o))
}

// EnqueueCommand posts a command to the command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	a.dispatcher.Enqueue(cmd)
}

// Snapshot returns the current signal state.
func (a *AppManager) Snapshot() light.Snapshot {
	return a.controller.Snapshot()
}

// HandleKeyRune handles key presses for the application.
func (a *AppManager) HandleKeyRune(r rune) {
	if cmd, ok := control.CommandForKey(r, a.controller.State()); ok {
		a.EnqueueCommand(cmd)
	}
}

// Shutdown detaches the window observers, then stops the command loop and
// waits for it to exit.
func (a *AppManager) Shutdown() {
	for _, id := range a.subs {
		a.controller.Unsubscribe(id)
	}
	a.subs = nil
	if a.cmdCancel == nil {
		return
	}
	a.cmdCancel()
	<-a.done
	a.cmdCancel = nil
}
