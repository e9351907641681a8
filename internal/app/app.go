package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/anchorrisk/anchorrisk-backend/internal/data/db"
	"github.com/anchorrisk/anchorrisk-backend/internal/data/repos"
	"github.com/anchorrisk/anchorrisk-backend/internal/http"
	"github.com/anchorrisk/anchorrisk-backend/internal/observability"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    repos.Repos
	Clients  Clients
	Services Services
	Hub      *realtime.Hub
	Metrics  *observability.Metrics

	shutdownOtel func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, err
	}

	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.NewMetrics(log)

	theDB, err := db.Open(log, cfg.DB)
	if err != nil {
		_ = shutdownOtel(ctx)
		return nil, fmt.Errorf("init database: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		_ = shutdownOtel(ctx)
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(log, cfg, clients, reposet, metrics)
	if err != nil {
		clients.Close(ctx)
		_ = shutdownOtel(ctx)
		return nil, err
	}

	hub := realtime.NewHub(log)
	handlerset := wireHandlers(log, serviceset, hub, theDB, clients)
	middleware := wireMiddleware(log, cfg)
	server := wireServer(log, cfg, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Hub:          hub,
		Metrics:      metrics,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Start forwards bus events into the SSE hub until Close.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if a.Clients.Bus == nil {
		return nil
	}
	if err := a.Clients.Bus.StartForwarder(ctx, a.Hub.Broadcast); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	a.Log.Info("http server listening", "addr", a.Cfg.HTTP.Addr)
	return a.Server.Run(ctx, a.Cfg.HTTP.Addr)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close(ctx)
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
