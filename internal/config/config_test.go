package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berhot/session-handoff/internal/config"
	"github.com/berhot/session-handoff/sessions"
)

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetPort())
	assert.Equal(t, "Berhot", cfg.GetAppName())
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.Equal(t, sessions.OriginID("landing"), cfg.GetOriginID())
	assert.Equal(t, "http://localhost:3000", cfg.GetLandingOrigin())
	assert.Equal(t, "en", cfg.GetDefaultLang())
	assert.False(t, cfg.GetSignInEnabled())
	assert.Empty(t, cfg.GetRedisAddr())
	assert.Equal(t, "berhot", cfg.GetRedisPrefix())
	assert.Empty(t, cfg.GetOriginURLs())
	assert.Empty(t, cfg.GetAllowedOrigins())
	assert.Equal(t, 15*time.Minute, cfg.GetPendingFlowTTL())
	assert.NotEmpty(t, cfg.GetDevJWTSecret())
}

func TestFromMap(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{
		"PORT":             ":3002",
		"ENV":              "prod",
		"LOG_LEVEL":        "DEBUG",
		"ORIGIN_ID":        "cafe",
		"LANDING_ORIGIN":   "https://berhot.example/",
		"DEFAULT_LANG":     "ar",
		"SIGNIN_ENABLED":   "true",
		"BACKEND_URL":      "http://backend:8090/",
		"REDIS_ADDR":       "localhost:6379",
		"ORIGIN_URLS":      "cafe=https://cafe.berhot.example, retail=https://retail.berhot.example",
		"ALLOWED_ORIGINS":  "https://cafe.berhot.example,https://retail.berhot.example/",
		"PENDING_FLOW_TTL": "2m",
	})
	require.NoError(t, err)

	assert.Equal(t, ":3002", cfg.GetPort())
	assert.Equal(t, "PROD", cfg.GetEnv())
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "debug", cfg.GetLogLevel())
	assert.Equal(t, sessions.OriginID("cafe"), cfg.GetOriginID())
	assert.Equal(t, "https://berhot.example", cfg.GetLandingOrigin())
	assert.Equal(t, "ar", cfg.GetDefaultLang())
	assert.True(t, cfg.GetSignInEnabled())
	assert.Equal(t, "http://backend:8090", cfg.GetBackendURL())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.Equal(t, map[sessions.OriginID]string{
		"cafe":   "https://cafe.berhot.example",
		"retail": "https://retail.berhot.example",
	}, cfg.GetOriginURLs())
	assert.True(t, cfg.GetAllowedOrigins().IsAllowedOrigin("https://retail.berhot.example"))
	assert.False(t, cfg.GetAllowedOrigins().IsAllowedOrigin("https://evil.example"))
	assert.Equal(t, 2*time.Minute, cfg.GetPendingFlowTTL())
}

func TestFromMap_Invalid(t *testing.T) {
	_, err := config.FromMap(map[string]string{"PENDING_FLOW_TTL": "soon"})
	assert.Error(t, err)

	_, err = config.FromMap(map[string]string{"SIGNIN_ENABLED": "maybe"})
	assert.Error(t, err)
}
