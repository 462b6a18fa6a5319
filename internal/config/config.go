package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	SeedPolicyFallback = "fallback"
	SeedPolicyMerge    = "merge"

	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"

	minSessionSecretLength = 16
)

type Config struct {
	APIBaseURL  string        `env:"PORTFOLIO_API_URL" envDefault:"http://localhost:3001/api"`
	HTTPTimeout time.Duration `env:"PORTFOLIO_HTTP_TIMEOUT" envDefault:"0s"`

	AdminUsername string        `env:"PORTFOLIO_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string        `env:"PORTFOLIO_ADMIN_PASSWORD" envDefault:"admin123"`
	SessionSecret string        `env:"PORTFOLIO_SESSION_SECRET" envDefault:"portfolio-admin-dev-secret"`
	SessionTTL    time.Duration `env:"PORTFOLIO_SESSION_TTL" envDefault:"0s"`

	SessionBackend string `env:"PORTFOLIO_SESSION_BACKEND" envDefault:"file"`
	SessionFile    string `env:"PORTFOLIO_SESSION_FILE"`
	RedisAddr      string `env:"PORTFOLIO_REDIS_ADDR" envDefault:"localhost:6379"`
	SessionKey     string `env:"PORTFOLIO_SESSION_KEY" envDefault:"portfolio-admin:session"`

	SeedPolicy     string        `env:"PORTFOLIO_SEED_POLICY" envDefault:"fallback"`
	ToastDuration  time.Duration `env:"PORTFOLIO_TOAST_DURATION" envDefault:"3s"`
	MaxUploadBytes int64         `env:"PORTFOLIO_MAX_UPLOAD_BYTES" envDefault:"5242880"`

	BreakerThreshold int           `env:"PORTFOLIO_BREAKER_THRESHOLD" envDefault:"0"`
	BreakerCooldown  time.Duration `env:"PORTFOLIO_BREAKER_COOLDOWN" envDefault:"10s"`

	MetricsAddr string `env:"PORTFOLIO_METRICS_ADDR"`
	LogLevel    string `env:"PORTFOLIO_LOG_LEVEL" envDefault:"warn"`
	LogFormat   string `env:"PORTFOLIO_LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.SeedPolicy {
	case SeedPolicyFallback, SeedPolicyMerge:
	default:
		return fmt.Errorf("PORTFOLIO_SEED_POLICY must be %q or %q, got %q", SeedPolicyFallback, SeedPolicyMerge, c.SeedPolicy)
	}

	switch c.SessionBackend {
	case SessionBackendFile, SessionBackendRedis:
	default:
		return fmt.Errorf("PORTFOLIO_SESSION_BACKEND must be %q or %q, got %q", SessionBackendFile, SessionBackendRedis, c.SessionBackend)
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("PORTFOLIO_MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if len(c.SessionSecret) < minSessionSecretLength {
		return fmt.Errorf("PORTFOLIO_SESSION_SECRET must be at least %d bytes long", minSessionSecretLength)
	}
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return fmt.Errorf("admin credentials must not be empty")
	}
	return nil
}

func (c Config) UseRedisSession() bool {
	return c.SessionBackend == SessionBackendRedis
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "portfolio-admin", "session.json")
}
