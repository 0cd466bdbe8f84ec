package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "eventspark", cfg.MongoDBDatabase)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 10*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.ClientURLs)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.CityGuideEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CLIENT_URLS", "https://a.example,https://b.example")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEOCODER_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.ClientURLs)
	assert.True(t, cfg.CityGuideEnabled())
	assert.Equal(t, 3*time.Second, cfg.GeocoderTimeout)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "MONGODB_URI")

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}
