package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("GIN_MODE", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, "RRMMS", cfg.RequestsDB)
	assert.Equal(t, "users1", cfg.UsersDB)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, SessionBackendMemory, cfg.SessionBackend)
	assert.Equal(t, 12*time.Hour, cfg.SessionMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}

func TestLoadMemoryDriverNeedsNoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
}

func TestValidateRedisBackendNeedsURL(t *testing.T) {
	cfg := &Config{
		StoreDriver:    StoreDriverMemory,
		SessionBackend: SessionBackendRedis,
		DBTimeout:      time.Second,
	}
	require.Error(t, cfg.Validate())

	cfg.SessionRedisURL = "redis://127.0.0.1:6379/0"
	require.NoError(t, cfg.Validate())
}

func TestValidateReleaseRejectsDefaultSecret(t *testing.T) {
	cfg := &Config{
		GinMode:        "release",
		StoreDriver:    StoreDriverMemory,
		SessionBackend: SessionBackendMemory,
		DBTimeout:      time.Second,
		SessionSecret:  "secret",
	}
	require.Error(t, cfg.Validate())

	cfg.SessionSecret = "a-long-random-signing-key"
	require.NoError(t, cfg.Validate())
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("X_DURATION", "45m")
	assert.Equal(t, 45*time.Minute, getEnvAsDuration("X_DURATION", time.Second))

	t.Setenv("X_DURATION", "90")
	assert.Equal(t, 90*time.Second, getEnvAsDuration("X_DURATION", time.Second))

	t.Setenv("X_DURATION", "garbage")
	assert.Equal(t, time.Second, getEnvAsDuration("X_DURATION", time.Second))
}
