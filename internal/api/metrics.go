package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geomkit",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geomkit",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Conversion metrics
	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geomkit",
		Subsystem: "convert",
		Name:      "conversions_total",
		Help:      "Total geometry conversions by source and target format",
	}, []string{"from", "to", "status"})

	conversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geomkit",
		Subsystem: "convert",
		Name:      "duration_seconds",
		Help:      "Duration of geometry conversions",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"from", "to"})

	detectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geomkit",
		Subsystem: "convert",
		Name:      "detections_total",
		Help:      "Total format detections by detected format (unknown = no match)",
	}, []string{"format"})

	activeWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geomkit",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})
)

// normalizePath reduces path cardinality for metrics by replacing IDs with :id.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/v1/geometries/") && path != "/v1/geometries/" {
		return "/v1/geometries/:id"
	}
	return path
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.status = code
		sr.written = true
		sr.ResponseWriter.WriteHeader(code)
	}
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.WriteHeader(http.StatusOK)
	}
	return sr.ResponseWriter.Write(b)
}

// MetricsMiddleware records request counts and latency.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sr, r)

		path := normalizePath(r.URL.Path)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sr.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func recordConversion(from, to string, ok bool, elapsed time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}
	conversionsTotal.WithLabelValues(from, to, status).Inc()
	if ok {
		conversionDuration.WithLabelValues(from, to).Observe(elapsed.Seconds())
	}
}

func recordDetection(format string) {
	if format == "" {
		format = "unknown"
	}
	detectionsTotal.WithLabelValues(format).Inc()
}
