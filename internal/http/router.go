package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/anchorrisk/anchorrisk-backend/internal/http/handlers"
	httpMW "github.com/anchorrisk/anchorrisk-backend/internal/http/middleware"
	"github.com/anchorrisk/anchorrisk-backend/internal/http/response"
	"github.com/anchorrisk/anchorrisk-backend/internal/observability"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	AuthMiddleware  *httpMW.AuthMiddleware
	SimulateLimiter *httpMW.RateLimiter

	RiskHandler     *httpH.RiskHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	risk := r.Group("/risk")
	if cfg.AuthMiddleware != nil {
		risk.Use(cfg.AuthMiddleware.RequireAuth())
	}

	if h := cfg.RiskHandler; h != nil {
		risk.POST("/analyze/:id", h.Analyze)
		risk.GET("/context/:id", h.GetContext)
		risk.GET("/graph-metrics/:id", h.GetGraphMetrics)
		risk.GET("/summary/:id", h.GetSummary)
		risk.GET("/explain/:id", h.GetExplain)
		risk.GET("/weak-links/:id", h.GetWeakLinks)
		risk.GET("/recommendations/:id", h.GetRecommendations)
		risk.POST("/loan-evaluation/:id", h.EvaluateLoan)
		risk.GET("/graph-data/:id", h.GetGraphData)
		risk.GET("/graph-image/:id", h.GetGraphImage)
		risk.GET("/simulations/:id", h.ListSimulations)

		limit := cfg.SimulateLimiter.Handler()
		risk.POST("/simulate/:id", limit, h.Simulate)
		risk.POST("/simulate-batch/:id", limit, h.SimulateBatch)
	}

	if cfg.RealtimeHandler != nil {
		risk.GET("/events/:id", cfg.RealtimeHandler.Stream)
	}

	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("route not found"))
	})
	return r
}
