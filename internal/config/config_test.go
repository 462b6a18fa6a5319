package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORTFOLIO_SESSION_FILE", "/tmp/portfolio-admin-test/session.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001/api", cfg.APIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Equal(t, SeedPolicyFallback, cfg.SeedPolicy)
	assert.Equal(t, SessionBackendFile, cfg.SessionBackend)
	assert.Equal(t, 3*time.Second, cfg.ToastDuration)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 0, cfg.BreakerThreshold)
	assert.False(t, cfg.UseRedisSession())
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORTFOLIO_API_URL", "https://api.example.com")
	t.Setenv("PORTFOLIO_SEED_POLICY", "merge")
	t.Setenv("PORTFOLIO_SESSION_BACKEND", "redis")
	t.Setenv("PORTFOLIO_REDIS_ADDR", "redis:6379")
	t.Setenv("PORTFOLIO_TOAST_DURATION", "500ms")
	t.Setenv("PORTFOLIO_BREAKER_THRESHOLD", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, SeedPolicyMerge, cfg.SeedPolicy)
	assert.True(t, cfg.UseRedisSession())
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 500*time.Millisecond, cfg.ToastDuration)
	assert.Equal(t, 3, cfg.BreakerThreshold)
	assert.NotEmpty(t, cfg.SessionFile)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown seed policy", "PORTFOLIO_SEED_POLICY", "concat"},
		{"unknown session backend", "PORTFOLIO_SESSION_BACKEND", "cookie"},
		{"zero upload limit", "PORTFOLIO_MAX_UPLOAD_BYTES", "0"},
		{"short secret", "PORTFOLIO_SESSION_SECRET", "short"},
		{"bad duration", "PORTFOLIO_TOAST_DURATION", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
