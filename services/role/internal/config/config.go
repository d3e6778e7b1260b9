package config

import (
	"fmt"

	pkgconfig "github.com/ebuitra10/SmartOrderAIProject/pkg/config"
)

// Config holds all configuration for the role service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"ROLE_HTTP_PORT" envDefault:"8002"`

	// PostgreSQL
	PostgresHost          string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort          int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser          string `env:"POSTGRES_USER" envDefault:"smartorder"`
	PostgresPass          string `env:"POSTGRES_PASSWORD" envDefault:"smartorder_secret"`
	PostgresDB            string `env:"ROLE_DB_NAME" envDefault:"role_db"`
	PostgresSSL           string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns            int    `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int    `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int    `env:"DB_MAX_CONN_LIFETIME_MINS" envDefault:"60"`
	DBMaxConnIdleTimeMins int    `env:"DB_MAX_CONN_IDLE_TIME_MINS" envDefault:"10"`
	SlowQueryThresholdMs  int    `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load role config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	return nil
}
