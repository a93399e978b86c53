package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 9090, cfg.GRPC.Port)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "orders.events", cfg.Messaging.Kafka.Topic)
	assert.Equal(t, "harvest", cfg.Observability.ServiceName)
}

func TestMissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CACHE_ENABLED", "false")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.HTTP.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "noop", cfg.Cache.Driver)
}

func TestInvalidHTTPPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "-1")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestUnsupportedCacheDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CACHE_DRIVER", "memcached")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported cache driver")
}
