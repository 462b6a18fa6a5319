// Package testutil runs the in-memory portfolio API for package tests.
package testutil

import (
	"net/http/httptest"
	"testing"

	"portfolio-admin/internal/mockapi"
)

// Backend is a mockapi.Server listening on a loopback port for the
// duration of a test.
type Backend struct {
	*mockapi.Server
	server *httptest.Server
}

func NewBackend(t testing.TB) *Backend {
	t.Helper()

	api := mockapi.New()
	b := &Backend{Server: api, server: httptest.NewServer(api)}
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API base URL, including the /api prefix.
func (b *Backend) URL() string {
	return b.server.URL + mockapi.APIPrefix
}

func (b *Backend) Close() {
	b.server.Close()
}

// AddFile stores a file as if it had been uploaded earlier and returns the
// URL it is served from.
func (b *Backend) AddFile(name string, data []byte) string {
	b.Server.AddFile(name, data)
	return mockapi.FileURL(b.server.URL, name)
}
