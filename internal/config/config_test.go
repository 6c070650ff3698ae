package config_test

import (
	"testing"
	"time"

	"github.com/calebhoward/bastion/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "a-perfectly-reasonable-test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenExpiry)
	assert.True(t, cfg.Auth.GateFailClosed)
	assert.Equal(t, 5, cfg.Guard.FailureThreshold)
	assert.Equal(t, 900*time.Second, cfg.Guard.LockoutWindow)
	assert.True(t, cfg.Guard.FailOpen)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Metrics.SampleInterval)
	assert.Equal(t, 100, cfg.Metrics.HistoryCapacity)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCKOUT_THRESHOLD", "3")
	t.Setenv("LOCKOUT_WINDOW", "5m")
	t.Setenv("LOCKOUT_FAIL_OPEN", "false")
	t.Setenv("METRICS_SAMPLE_INTERVAL", "10s")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Guard.FailureThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Guard.LockoutWindow)
	assert.False(t, cfg.Guard.FailOpen)
	assert.Equal(t, 10*time.Second, cfg.Metrics.SampleInterval)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsShortSecretInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "short-but-over-16ch")
	t.Setenv("ENV", "production")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsWeakSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "changeme")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsZeroThreshold(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCKOUT_THRESHOLD", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
