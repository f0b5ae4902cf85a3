package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "dev")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, int64(5), cfg.LowStockThreshold)
	assert.Equal(t, "dev_secret_change_me", cfg.JWTSecret)
	assert.False(t, cfg.SeedUsers)
}

func TestLoad_RequiresSecretOutsideDev(t *testing.T) {
	t.Setenv("GO_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("GO_ENV", "dev")

	t.Setenv("JWT_TTL", "forever")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_TTL")

	t.Setenv("JWT_TTL", "1h")
	t.Setenv("DB_DRIVER", "mysql")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "prod")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("SEED_USERS", "true")
	t.Setenv("AUTH_RATE_LIMIT", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.SeedUsers)
	assert.Equal(t, 2.5, cfg.AuthRateLimit)
	assert.False(t, cfg.IsDev())
}
