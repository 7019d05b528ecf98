package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the download gateway.
type Metrics struct {
	registry          *prometheus.Registry
	requestsTotal     prometheus.Counter
	analysesTotal     prometheus.Counter
	downloadsTotal    prometheus.Counter
	rateLimitedTotal  prometheus.Counter
	cacheHitsTotal    prometheus.Counter
	errorsTotal       prometheus.Counter
	trackedIdentities prometheus.Gauge
}

// New creates and registers Prometheus metrics for the gateway.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_requests_total",
		Help: "Total number of HTTP requests received",
	})
	analysesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_analyses_total",
		Help: "Total number of successful video analyses",
	})
	downloadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_downloads_total",
		Help: "Total number of download streams started",
	})
	rateLimitedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
	cacheHitsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_cache_hits_total",
		Help: "Total number of analyses served from the metadata cache",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	trackedIdentities := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_tracked_identities",
		Help: "Number of client identities currently held by the rate limiters",
	})

	registry.MustRegister(
		requestsTotal,
		analysesTotal,
		downloadsTotal,
		rateLimitedTotal,
		cacheHitsTotal,
		errorsTotal,
		trackedIdentities,
	)

	return &Metrics{
		registry:          registry,
		requestsTotal:     requestsTotal,
		analysesTotal:     analysesTotal,
		downloadsTotal:    downloadsTotal,
		rateLimitedTotal:  rateLimitedTotal,
		cacheHitsTotal:    cacheHitsTotal,
		errorsTotal:       errorsTotal,
		trackedIdentities: trackedIdentities,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncAnalyses increments the successful analyses counter.
func (m *Metrics) IncAnalyses() {
	m.analysesTotal.Inc()
}

// IncDownloads increments the download streams counter.
func (m *Metrics) IncDownloads() {
	m.downloadsTotal.Inc()
}

// IncRateLimited increments the rate-limited rejections counter.
func (m *Metrics) IncRateLimited() {
	m.rateLimitedTotal.Inc()
}

// IncCacheHits increments the metadata cache hit counter.
func (m *Metrics) IncCacheHits() {
	m.cacheHitsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// SetTrackedIdentities sets the tracked identities gauge.
func (m *Metrics) SetTrackedIdentities(n int) {
	m.trackedIdentities.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
