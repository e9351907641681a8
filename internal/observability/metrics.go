package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

// Metrics is nil-safe: every method on a nil *Metrics is a no-op, so callers
// never branch on whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	scorerCalls   *prometheus.CounterVec
	scorerLatency *prometheus.HistogramVec

	assessments  *prometheus.CounterVec
	simulations  *prometheus.CounterVec
	eventPublish *prometheus.CounterVec
}

// NewMetrics registers every collector on a private registry.
func NewMetrics(log *logger.Logger) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anchorrisk_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "anchorrisk_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "anchorrisk_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		scorerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anchorrisk_scorer_calls_total",
			Help: "Fragility scorer calls by backend/outcome.",
		}, []string{"backend", "outcome"}),
		scorerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "anchorrisk_scorer_duration_seconds",
			Help:    "Fragility scorer latency in seconds, retries included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend"}),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anchorrisk_assessments_total",
			Help: "Risk contexts built by risk band.",
		}, []string{"risk_band"}),
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anchorrisk_simulations_total",
			Help: "Shock simulations by shock type/impact.",
		}, []string{"shock_type", "impact"}),
		eventPublish: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anchorrisk_event_publish_total",
			Help: "Risk events published to the bus by type/outcome.",
		}, []string{"type", "outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.scorerCalls, m.scorerLatency,
		m.assessments, m.simulations, m.eventPublish,
	)
	if log != nil {
		log.Info("prometheus metrics initialized")
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveScorer(backend string, err error, dur time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.scorerCalls.WithLabelValues(backend, outcome).Inc()
	m.scorerLatency.WithLabelValues(backend).Observe(dur.Seconds())
}

func (m *Metrics) IncAssessment(riskBand string) {
	if m == nil {
		return
	}
	if riskBand == "" {
		riskBand = "UNKNOWN"
	}
	m.assessments.WithLabelValues(riskBand).Inc()
}

func (m *Metrics) IncSimulation(shockType, impact string) {
	if m == nil {
		return
	}
	m.simulations.WithLabelValues(shockType, impact).Inc()
}

func (m *Metrics) IncEventPublish(eventType string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.eventPublish.WithLabelValues(eventType, outcome).Inc()
}
