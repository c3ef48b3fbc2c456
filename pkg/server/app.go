package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"FuelDesk/internal/usecase"
	"FuelDesk/pkg/config"
	xhttp "FuelDesk/pkg/http"
	applogger "FuelDesk/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	console    *usecase.Console
	journal    *usecase.JournalRecorder
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	console *usecase.Console,
	journal *usecase.JournalRecorder,
) *App {
	return &App{
		cfg:        cfg,
		logger:     l,
		httpServer: httpServer,
		console:    console,
		journal:    journal,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Journal observes every state change; the worker drains its queue.
	if a.journal.Enabled() {
		a.console.Subscribe(a.journal.Observe)
	}
	a.journal.Start(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("console ready",
		applogger.String("api_root", a.cfg.Forecast.APIRoot),
		applogger.Bool("drop_stale", a.cfg.Forecast.DropStale),
		applogger.String("journal", a.cfg.Journal.Backend),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Background dispatches still resolve into the store; give them the
	// remaining shutdown window.
	done := make(chan struct{})
	go func() {
		a.console.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		a.logger.Warn("shutdown: dispatches still in flight")
	}

	a.journal.Close()

	a.logger.Info("shutdown complete")
	return nil
}
