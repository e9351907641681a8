package app

import (
	"github.com/anchorrisk/anchorrisk-backend/internal/http"
	httpMW "github.com/anchorrisk/anchorrisk-backend/internal/http/middleware"
	"github.com/anchorrisk/anchorrisk-backend/internal/observability"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

type Middleware struct {
	Auth     *httpMW.AuthMiddleware
	Simulate *httpMW.RateLimiter
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	mw := Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.Auth.JWTSecret, cfg.Auth.Issuer),
	}
	if !mw.Auth.Enabled() {
		log.Warn("JWT_SECRET_KEY not set; /risk routes are unauthenticated")
	}
	if cfg.HTTP.SimulateRPS > 0 {
		mw.Simulate = httpMW.NewRateLimiter(cfg.HTTP.SimulateRPS, cfg.HTTP.SimulateBurst)
	}
	return mw
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		Metrics:         metrics,
		AuthMiddleware:  middleware.Auth,
		SimulateLimiter: middleware.Simulate,
		RiskHandler:     handlers.Risk,
		RealtimeHandler: handlers.Realtime,
		HealthHandler:   handlers.Health,
	})
}
