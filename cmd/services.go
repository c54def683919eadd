package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/xvierd/reps/internal/adapters/clock"
	"github.com/xvierd/reps/internal/adapters/export"
	"github.com/xvierd/reps/internal/adapters/git"
	"github.com/xvierd/reps/internal/adapters/notification"
	"github.com/xvierd/reps/internal/config"
	"github.com/xvierd/reps/internal/logging"
	"github.com/xvierd/reps/internal/ports"
	"github.com/xvierd/reps/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	logger   *slog.Logger
	logFile  io.Closer
	notifier *notification.Notifier
	git      ports.GitDetector
	timer    *services.TaskTimerController
	reports  *services.ReportService
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	// Load configuration
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	level := app.config.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	app.logger, app.logFile, err = logging.Open(config.GetLogPath(app.config), level)
	if err != nil {
		// Fall back to a silent logger
		app.logger, app.logFile = logging.Discard(), nil
	}

	app.notifier = notification.New(&app.config.Notifications)
	app.git = git.NewDetector()

	app.timer = services.NewTaskTimerController(clock.NewTicker(), app.logger)
	app.timer.SetInterval(app.config.TickInterval())

	app.reports = services.NewReportService(app.timer, app.git, export.ForFormat, config.GetExportDir(app.config), app.logger)

	app.logger.Debug("services initialized", "tick_interval", app.config.TickInterval())
	return nil
}

// cleanupServices stops the timer and closes the log file.
func cleanupServices() error {
	if app.timer != nil {
		app.timer.Close()
	}
	if app.logFile != nil {
		err := app.logFile.Close()
		app.logFile = nil
		return err
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
