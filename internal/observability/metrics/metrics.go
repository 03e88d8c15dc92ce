package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics exposes request-level prometheus instruments.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fareengine_http_requests_total",
			Help: "Count of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fareengine_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// GinMiddleware records request counts and latencies.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// QuoteMetrics counts fare quote outcomes.
type QuoteMetrics struct {
	quotes *prometheus.CounterVec
}

func NewQuoteMetrics() *QuoteMetrics {
	return &QuoteMetrics{
		quotes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fareengine_quotes_total",
			Help: "Count of fare quote calculations by vehicle type and outcome.",
		}, []string{"vehicle_type", "outcome"}),
	}
}

// RecordQuote increments the quote counter for one calculation.
func (m *QuoteMetrics) RecordQuote(vehicleType, outcome string) {
	if m == nil {
		return
	}
	vehicleType = strings.ToUpper(strings.TrimSpace(vehicleType))
	if vehicleType == "" {
		vehicleType = "unknown"
	}
	m.quotes.WithLabelValues(vehicleType, strings.TrimSpace(outcome)).Inc()
}
