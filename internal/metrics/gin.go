// Package metrics exposes Prometheus collectors for the HTTP API and the application workflow.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jobboard"

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "HTTP requests currently being served.",
		},
	)

	applicationStatusTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "status_changes_total",
			Help:      "Applications moved to a status, by status.",
		},
		[]string{"status"},
	)

	applicationsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "submitted_total",
			Help:      "Apply requests, by outcome (created or updated).",
		},
		[]string{"outcome"},
	)
)

// Register adds every collector to the default registry. It is safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			requestDuration,
			requestTotal,
			requestsInFlight,
			applicationStatusTotal,
			applicationsSubmittedTotal,
		)
	})
}

// GinMiddleware records latency, count and in-flight requests per route.
func GinMiddleware() gin.HandlerFunc {
	Register()

	return func(c *gin.Context) {
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		c.Next()

		// unmatched paths share one label
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}

		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestTotal.With(labels).Inc()
	}
}

// ApplicationStatusChanged counts a shortlist or reject.
func ApplicationStatusChanged(status string) {
	applicationStatusTotal.WithLabelValues(status).Inc()
}

// ApplicationSubmitted counts an apply request that was created or updated.
func ApplicationSubmitted(outcome string) {
	applicationsSubmittedTotal.WithLabelValues(outcome).Inc()
}
