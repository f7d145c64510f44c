package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/franciiscocg/Trading212/pkg/config"
	xhttp "github.com/franciiscocg/Trading212/pkg/http"
	applogger "github.com/franciiscocg/Trading212/pkg/logger"
)

// App owns the HTTP server lifecycle. Infrastructure clients are closed by
// the injector's cleanup function, not here.
type App struct {
	cfg    *config.Config
	logger *applogger.Logger
	http   *xhttp.Server
}

// New creates the application.
func New(cfg *config.Config, logger *applogger.Logger, httpServer *xhttp.Server) *App {
	return &App{cfg: cfg, logger: logger, http: httpServer}
}

// Run starts the HTTP server and blocks until an interrupt arrives, then
// shuts down gracefully.
func (a *App) Run() error {
	if err := a.http.Start(); err != nil {
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.http.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.logger.Info("shutdown complete")
	return nil
}
