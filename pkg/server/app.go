package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "FxPulse/internal/domain/repository"
	"FxPulse/internal/handler/ws"
	"FxPulse/internal/usecase"
	pkgch "FxPulse/pkg/clickhouse"
	"FxPulse/pkg/config"
	xhttp "FxPulse/pkg/http"
	applogger "FxPulse/pkg/logger"
)

// App ties the monitor, the HTTP surface and the infrastructure clients
// into one lifecycle.
type App struct {
	cfg     *config.Config
	log     *applogger.Logger
	monitor *usecase.Monitor
	hub     *ws.Hub
	handler xhttp.Handler

	publisher drepo.SignalPublisher
	chClient  *pkgch.Client

	httpServer *xhttp.Server
}

// New creates the application. Publisher and chClient may be nil when
// the corresponding backends are disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	monitor *usecase.Monitor,
	hub *ws.Hub,
	handler xhttp.Handler,
	publisher drepo.SignalPublisher,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		monitor:   monitor,
		hub:       hub,
		handler:   handler,
		publisher: publisher,
		chClient:  chClient,
	}
}

// Run starts the monitor and the HTTP server, then blocks until an
// interrupt arrives.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(a.cfg.Server.CORS),
	)
	a.httpServer.Echo().GET("/ws", a.hub.Handle)

	if err := a.monitor.Start(ctx); err != nil {
		return err
	}
	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.log.Info("fxpulse running",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.monitor.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("monitor stop error", applogger.Error(err))
	}
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	a.hub.Close()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
