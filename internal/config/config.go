package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	MongoDBURI      string `env:"MONGODB_URI"`
	MongoDBPassword string `env:"MONGODB_PASSWORD"`
	MongoDBDatabase string `env:"MONGODB_DATABASE" envDefault:"eventspark"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`

	ClientURLs []string `env:"CLIENT_URLS" envSeparator:"," envDefault:"http://localhost:5173"`

	GeocoderBaseURL   string        `env:"GEOCODER_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string        `env:"GEOCODER_USER_AGENT" envDefault:"events-app/1.0"`
	GeocoderTimeout   time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"10s"`

	// Optional; the city guide is disabled when the key is empty.
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTExpiresIn <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CityGuideEnabled reports whether a generative-text provider is configured.
func (c *Config) CityGuideEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
