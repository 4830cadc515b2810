// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; empty until DB is wired.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// AppBaseURL is the public base URL of the application (e.g. https://app.example.com).
	// The session cookie domain is derived from its hostname.
	AppBaseURL string `mapstructure:"APP_BASE_URL"`
	// SessionCookieName is the name of the session cookie.
	SessionCookieName string `mapstructure:"SESSION_COOKIE_NAME"`
	// SecureCookies marks session cookies Secure; required when APP_ENV=production.
	SecureCookies bool `mapstructure:"SECURE_COOKIES"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// OTELExporterEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317).
	// Empty disables telemetry export.
	OTELExporterEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTELInsecure forces a plaintext OTLP connection even for https endpoints.
	OTELInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")
	v.SetDefault("SESSION_COOKIE_NAME", "portico_session")
	v.SetDefault("SECURE_COOKIES", false)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.AppBaseURL == "" {
		return nil, errors.New("config: APP_BASE_URL must be set")
	}
	if cfg.SessionCookieName == "" {
		return nil, errors.New("config: SESSION_COOKIE_NAME must be set")
	}

	if cfg.Env == "production" && !cfg.SecureCookies {
		return nil, errors.New("config: SECURE_COOKIES must be true when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}
