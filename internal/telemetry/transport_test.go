package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportCountsByResourceAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/reviews/99" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewTransport(nil, "/api")}

	okBefore := testutil.ToFloat64(clientRequestsTotal.WithLabelValues("GET", "products", "200"))
	notFoundBefore := testutil.ToFloat64(clientRequestsTotal.WithLabelValues("DELETE", "reviews", "404"))

	resp, err := client.Get(srv.URL + "/api/products")
	require.NoError(t, err)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/reviews/99", nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, okBefore+1, testutil.ToFloat64(clientRequestsTotal.WithLabelValues("GET", "products", "200")))
	assert.Equal(t, notFoundBefore+1, testutil.ToFloat64(clientRequestsTotal.WithLabelValues("DELETE", "reviews", "404")))
}

func TestTransportCountsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client := &http.Client{Transport: NewTransport(nil, "/api")}
	before := testutil.ToFloat64(clientRequestsTotal.WithLabelValues("GET", "hero", StatusTransportError))

	_, err := client.Get(addr + "/api/hero")
	require.Error(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(clientRequestsTotal.WithLabelValues("GET", "hero", StatusTransportError)))
}

func TestResourceLabel(t *testing.T) {
	tr := NewTransport(nil, "/api/")
	tests := map[string]string{
		"/api/products":         "products",
		"/api/products/4":       "products",
		"/api/upload/a.png":     "upload",
		"/api/cleanup/orphaned": "cleanup",
		"/api":                  "root",
		"/other/thing":          "other",
	}
	for path, want := range tests {
		assert.Equal(t, want, tr.resource(path), path)
	}
}

func TestToastShown(t *testing.T) {
	before := testutil.ToFloat64(toastsTotal.WithLabelValues("error"))
	ToastShown("error")
	assert.Equal(t, before+1, testutil.ToFloat64(toastsTotal.WithLabelValues("error")))
}
