package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"TrafficLight/config"
	"TrafficLight/i18n"
	"TrafficLight/notify"
	"TrafficLight/ui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := notify.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	i18n.Detect(cfg.Language, logger)

	fyneApp := app.New()
	fyneApp.Settings().SetTheme(ui.NewCustomTheme(ui.BackgroundColor))

	a, err := NewAppManager(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create signal", zap.Error(err))
	}

	w := ui.CreateMainWindow(a, fyneApp)
	a.Subscribe(w)
	a.Start()
	w.Window.SetOnClosed(a.Shutdown)

	w.Window.ShowAndRun()
}
