package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pricewatch/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncProductsRefreshed()
	IncFetchFailures()
	IncNotificationsSent()
	ObserveRefreshDuration(duration time.Duration)
	SetLastRefreshTime(t time.Time)
}

type MetricsProvider struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	productsRefreshed prometheus.Counter
	fetchFailures     prometheus.Counter
	notificationsSent prometheus.Counter
	refreshDuration   prometheus.Histogram
	lastRefreshTime   prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncProductsRefreshed() {
	m.productsRefreshed.Inc()
}

func (m *MetricsProvider) IncFetchFailures() {
	m.fetchFailures.Inc()
}

func (m *MetricsProvider) IncNotificationsSent() {
	m.notificationsSent.Inc()
}

func (m *MetricsProvider) ObserveRefreshDuration(duration time.Duration) {
	m.refreshDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetLastRefreshTime(t time.Time) {
	m.lastRefreshTime.Set(float64(t.Unix()))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pw_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pw_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pw_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pw_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		productsRefreshed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pw_products_refreshed_total",
			Help: "Total number of products refreshed successfully",
		}),

		fetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pw_fetch_failures_total",
			Help: "Total number of failed product refreshes",
		}),

		notificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pw_notifications_sent_total",
			Help: "Total number of notifications dispatched",
		}),

		refreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pw_refresh_duration_seconds",
			Help:    "Duration of full refresh cycles in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),

		lastRefreshTime: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pw_last_refresh_timestamp_seconds",
			Help: "Unix time of the last completed refresh cycle",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncProductsRefreshed()                            {}
func (n *noopMetrics) IncFetchFailures()                                {}
func (n *noopMetrics) IncNotificationsSent()                            {}
func (n *noopMetrics) ObserveRefreshDuration(_ time.Duration)           {}
func (n *noopMetrics) SetLastRefreshTime(_ time.Time)                   {}
