package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crimedash/internal/middleware/ratelimit"
)

const metricsNamespace = "crimedash"

// Metrics holds the server's Prometheus collectors on a private registry so
// that several servers (tests) can coexist in one process.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	renders     *prometheus.HistogramVec
	rateLimited prometheus.CounterFunc
	rateClients prometheus.GaugeFunc
	suspicious  *prometheus.CounterVec
	datasetRows prometheus.Gauge
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		renders: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a dashboard tab.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"tab"}),
		suspicious: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "suspicious_requests_total",
			Help:      "Requests flagged by the detector, by rule kind.",
		}, []string{"kind"}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_rows",
			Help:      "Rows in the loaded dataset.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.renders,
		m.suspicious,
		m.datasetRows,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveRequest records one finished request. It matches trace.Observer.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRender(tab string, elapsed time.Duration) {
	m.renders.WithLabelValues(tab).Observe(elapsed.Seconds())
}

// TrackLimiter exports the limiter's rejection count and the number of
// clients it currently tracks. Call it once per Metrics.
func (m *Metrics) TrackLimiter(l *ratelimit.Limiter) {
	m.rateLimited = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the per-IP rate limiter.",
	}, func() float64 { return float64(l.Rejected()) })
	m.rateClients = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "rate_limit_clients",
		Help:      "Client IPs currently tracked by the rate limiter.",
	}, func() float64 { return float64(l.ActiveClients()) })
	m.registry.MustRegister(m.rateLimited, m.rateClients)
}

// Suspicious counts a detector hit. Only the rule kind ("path", "agent", ...)
// becomes a label; the matched value would explode cardinality.
func (m *Metrics) Suspicious(reason string) {
	kind, _, _ := strings.Cut(reason, ":")
	m.suspicious.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetDatasetRows(n int) { m.datasetRows.Set(float64(n)) }
