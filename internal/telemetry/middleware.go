package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_api_requests_total",
			Help: "Total number of requests served by the portfolio API",
		},
		[]string{"method", "resource", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_api_request_duration_seconds",
			Help:    "Portfolio API handler duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests served by next, labelled the same way as
// Transport labels the requests it sends.
func Middleware(next http.Handler, basePath string) http.Handler {
	basePath = strings.TrimSuffix(basePath, "/")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		resource := resourceLabel(basePath, r.URL.Path)
		httpRequestsTotal.WithLabelValues(r.Method, resource, strconv.Itoa(rw.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, resource).Observe(time.Since(start).Seconds())
	})
}
