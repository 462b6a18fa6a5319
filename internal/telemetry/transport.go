package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	clientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_client_requests_total",
			Help: "Total number of requests sent to the portfolio API",
		},
		[]string{"method", "resource", "status"},
	)

	clientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_client_request_duration_seconds",
			Help:    "Portfolio API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)

	toastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_toasts_total",
			Help: "Notifications shown, by kind",
		},
		[]string{"kind"},
	)
)

// StatusTransportError labels requests that never produced a response.
const StatusTransportError = "error"

type Transport struct {
	next     http.RoundTripper
	basePath string
}

// NewTransport instruments next. basePath is stripped before the resource
// label is derived, so "/api/products/4" is counted as "products".
func NewTransport(next http.RoundTripper, basePath string) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{next: next, basePath: strings.TrimSuffix(basePath, "/")}
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resource := t.resource(r.URL.Path)

	resp, err := t.next.RoundTrip(r)

	status := StatusTransportError
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	clientRequestsTotal.WithLabelValues(r.Method, resource, status).Inc()
	clientRequestDuration.WithLabelValues(r.Method, resource).Observe(time.Since(start).Seconds())

	return resp, err
}

func (t *Transport) resource(path string) string {
	return resourceLabel(t.basePath, path)
}

// resourceLabel keeps the first path segment after basePath so ids do not
// blow up label cardinality.
func resourceLabel(basePath, path string) string {
	path = strings.TrimPrefix(path, basePath)
	path = strings.TrimPrefix(path, "/")
	if idx := strings.Index(path, "/"); idx != -1 {
		path = path[:idx]
	}
	if path == "" {
		return "root"
	}
	return path
}

func ToastShown(kind string) {
	toastsTotal.WithLabelValues(kind).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
