// Package middleware carries the router-level instrumentation.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registers the Prometheus collectors for the HTTP surface.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// NewMetrics builds a registry with the request collectors.
func NewMetrics(backend string) *Metrics {
	registry := prometheus.NewRegistry()

	labels := prometheus.Labels{"backend": backend}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "http_request_duration_seconds",
		Help:        "Duration of HTTP requests in seconds",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: labels,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests",
		ConstLabels: labels,
	}, []string{"method", "path", "status"})

	registry.MustRegister(requestDuration, requestTotal)

	// Store-call collectors register themselves on the default registry, so
	// the scrape endpoint gathers both.
	gatherers := prometheus.Gatherers{registry, prometheus.DefaultGatherer}

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}
}

// Middleware captures duration and count per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler(c *gin.Context) {
	m.handler.ServeHTTP(c.Writer, c.Request)
}
