package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY_DURATION", "")
	t.Setenv("SALE_REVERSE_ON_DELETE", "")
	t.Setenv("LEDGER_STRICT_POINTS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 12*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.False(t, cfg.SaleReverseOnDelete)
	assert.True(t, cfg.LedgerStrictPoints)
	assert.Equal(t, 20, cfg.DefaultPageLimit)
	assert.Equal(t, 100, cfg.MaxPageLimit)
	assert.Equal(t, "5-M", cfg.LoginRateLimit)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY_DURATION", "30m")
	t.Setenv("SALE_REVERSE_ON_DELETE", "true")
	t.Setenv("LEDGER_STRICT_POINTS", "false")
	t.Setenv("ADMIN_USERNAME", "boss")
	t.Setenv("DEFAULT_PAGE_LIMIT", "50")
	t.Setenv("MAX_PAGE_LIMIT", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiryDuration)
	assert.True(t, cfg.SaleReverseOnDelete)
	assert.False(t, cfg.LedgerStrictPoints)
	assert.Equal(t, "boss", cfg.AdminUsername)
	assert.Equal(t, 50, cfg.DefaultPageLimit)
	assert.Equal(t, 50, cfg.MaxPageLimit, "max limit never drops below the default")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRY_DURATION", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiryDuration)
}
