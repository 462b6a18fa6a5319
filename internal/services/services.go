package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-admin/internal/config"
	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/resilience"
	"portfolio-admin/internal/telemetry"
)

const (
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// ServiceClient issues exactly one HTTP round trip per call. It never
// retries and never caches; failures are returned classified by fault.
type ServiceClient struct {
	baseURL        string
	client         *http.Client
	breaker        *resilience.CircuitBreaker
	maxUploadBytes int64
}

func NewServiceClient(cfg *config.Config) *ServiceClient {
	basePath := ""
	if u, err := url.Parse(cfg.APIBaseURL); err == nil {
		basePath = u.Path
	}

	s := &ServiceClient{
		baseURL: strings.TrimSuffix(cfg.APIBaseURL, "/"),
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: telemetry.NewTransport(http.DefaultTransport, basePath),
		},
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	if cfg.BreakerThreshold > 0 {
		s.breaker = resilience.NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown)
	}
	return s
}

func (s *ServiceClient) BaseURL() string {
	return s.baseURL
}

func (s *ServiceClient) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func (s *ServiceClient) do(ctx context.Context, method, path string, body []byte, contentType string, target any) error {
	if s.breaker == nil {
		return s.roundTrip(ctx, method, path, body, contentType, target)
	}
	return s.breaker.Execute(func() error {
		return s.roundTrip(ctx, method, path, body, contentType, target)
	})
}

func (s *ServiceClient) roundTrip(ctx context.Context, method, path string, body []byte, contentType string, target any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		slog.Debug("API request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w: %v", method, path, fault.ErrTransport, err)
	}
	defer resp.Body.Close()

	slog.Debug("API request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &fault.StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, fault.ErrMalformedResponse, err)
	}
	return nil
}

func (s *ServiceClient) fetchJSON(ctx context.Context, path string, target any) error {
	return s.do(ctx, http.MethodGet, path, nil, "", target)
}

func (s *ServiceClient) sendJSON(ctx context.Context, method, path string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s %s: %w", method, path, err)
	}
	return s.do(ctx, method, path, body, "application/json", target)
}

func (s *ServiceClient) delete(ctx context.Context, path string) error {
	return s.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// readErrorMessage prefers a JSON "error" or "message" field and falls back
// to the raw body text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}

// ImageFilename extracts the stored file name from an upload URL so it can
// be passed to DeleteImage. A bare file name is returned unchanged.
func ImageFilename(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}
	if idx := strings.LastIndex(ref, "/"); idx != -1 {
		ref = ref[idx+1:]
	}
	return ref
}
