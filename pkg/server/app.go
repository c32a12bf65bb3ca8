package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CycleWatch/internal/handler/api"
	"CycleWatch/internal/usecase"
	"CycleWatch/pkg/config"
	xhttp "CycleWatch/pkg/http"
	xlogger "CycleWatch/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *xlogger.Logger
	refresher  *usecase.Refresher
	hub        *api.Hub
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *xlogger.Logger,
	refresher *usecase.Refresher,
	hub *api.Hub,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		refresher: refresher,
		hub:       hub,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start the refresh loop. The first cycle runs before Start returns so
	// the API comes up with data when the upstreams are reachable.
	if err := a.refresher.Start(ctx); err != nil {
		a.logger.Error("refresher start error", xlogger.Error(err))
		return err
	}
	a.logger.Info("refresher started",
		xlogger.Duration("interval", a.cfg.Refresh.Interval),
		xlogger.Int("top_alts", a.cfg.Refresh.TopAlts),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services. The refresh loop stops first so no
// broadcast is in flight when the hub tears down its connections.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.refresher.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("refresher stop error", xlogger.Error(err))
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
	}

	if a.hub != nil {
		a.hub.Close()
	}

	a.logger.Info("shutdown complete")
	return nil
}
