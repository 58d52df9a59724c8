package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source search outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Watch check outcomes
const (
	WatchTriggered = "triggered"
	WatchIdle      = "idle"
	WatchFailed    = "failed"
)

var (
	sourceSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ucuzbot_source_searches_total",
			Help: "Total number of source searches by outcome.",
		},
		[]string{"source", "outcome"},
	)
	sourceSearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ucuzbot_source_search_duration_seconds",
			Help:    "Histogram of source search durations.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"source"},
	)
	watchChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ucuzbot_watch_checks_total",
			Help: "Total number of watch checks by outcome.",
		},
		[]string{"outcome"},
	)
	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ucuzbot_search_cache_lookups_total",
			Help: "Total number of search cache lookups by result.",
		},
		[]string{"result"},
	)
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ucuzbot_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ucuzbot_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		sourceSearchesTotal,
		sourceSearchDuration,
		watchChecksTotal,
		cacheLookupsTotal,
		httpRequestsTotal,
		httpRequestDuration,
	)
}

// RecordSourceSearch records one adapter invocation inside an aggregate call
func RecordSourceSearch(source, outcome string, duration time.Duration) {
	sourceSearchesTotal.WithLabelValues(source, outcome).Inc()
	sourceSearchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordWatchCheck records the outcome of one watch check
func RecordWatchCheck(outcome string) {
	watchChecksTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records a search cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordRequest records metrics for one HTTP request
func RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler returns the HTTP handler exporting Prometheus metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
