package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/summary"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := load(envFrom(nil))
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "573122477439", cfg.WhatsAppNumber)
	require.Equal(t, summary.ModeMessage, cfg.CheckoutMode)
	require.Equal(t, "es-CO", cfg.Locale)
	require.Equal(t, "COP", cfg.Currency)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Empty(t, cfg.RedisAddr)
	require.Empty(t, cfg.DispatchDBPath)
	require.Empty(t, cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.TraceSampleRatio)
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := load(envFrom(map[string]string{
		"PORT":             "9000",
		"CHECKOUT_MODE":    "dialog",
		"WHATSAPP_NUMBER":  "571234",
		"SESSION_TTL":      "15m",
		"REDIS_ADDR":       "redis:6379",
		"DISPATCH_DB_PATH": "/data/dispatch.db",
	}))
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr())
	require.Equal(t, summary.ModeDialog, cfg.CheckoutMode)
	require.Equal(t, "571234", cfg.WhatsAppNumber)
	require.Equal(t, 15*time.Minute, cfg.SessionTTL)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, "/data/dispatch.db", cfg.DispatchDBPath)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	for _, env := range []map[string]string{
		{"CHECKOUT_MODE": "fax"},
		{"SESSION_TTL": "soon"},
		{"OTEL_TRACES_SAMPLER_ARG": "half"},
	} {
		_, err := load(envFrom(env))
		require.Error(t, err, "%v", env)
	}
}
