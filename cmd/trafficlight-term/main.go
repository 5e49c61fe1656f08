// Command trafficlight-term runs the signal in a text terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"TrafficLight/audio"
	"TrafficLight/config"
	"TrafficLight/control"
	"TrafficLight/i18n"
	"TrafficLight/light"
	"TrafficLight/notify"
	"TrafficLight/terminal"
)

type termApp struct {
	controller *light.Controller
	dispatcher *control.Dispatcher
}

func (a termApp) EnqueueCommand(cmd control.Command) { a.dispatcher.Enqueue(cmd) }

func (a termApp) Snapshot() light.Snapshot { return a.controller.Snapshot() }

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trafficlight-term: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The screen owns the tty, so logs go to a file
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(os.TempDir(), "trafficlight-term.log")
	}
	logger, err := notify.NewLogger(cfg.LogLevel, logFile)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	i18n.Detect(cfg.Language, logger)

	durations, err := cfg.PhaseDurations()
	if err != nil {
		return err
	}
	controller, err := light.New(
		light.WithDurations(durations),
		light.WithPeriods(cfg.TickPeriod(), cfg.BlinkPeriod()),
		light.WithLogger(logger.Named("light")),
		light.WithObserver(notify.NewLogObserver(logger.Named("phase"))),
	)
	if err != nil {
		return fmt.Errorf("create signal: %w", err)
	}
	dispatcher := control.NewDispatcher(controller, logger.Named("control"))

	if cfg.Sound {
		chime := audio.NewChime(logger.Named("audio"), 0.4)
		if err := chime.Initialize(); err != nil {
			logger.Warn("audio disabled", zap.Error(err))
		} else {
			controller.Subscribe(chime)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	view := terminal.NewView(screen, termApp{controller: controller, dispatcher: dispatcher}, logger.Named("terminal"))
	detach := view.Attach(controller)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)

	done := make(chan error, 1)
	go func() {
		done <- dispatcher.Run(ctx)
	}()

	logger.Info("terminal signal ready", zap.Ints("durations", cfg.Durations), zap.String("lang", i18n.GetLang()))
	runErr := view.Run(ctx)
	detach()
	cancel()
	<-done
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
