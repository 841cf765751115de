package config_test

import (
	"testing"
	"time"

	"go-fleetpay/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("BATCH_CONCURRENCY", "")
	t.Setenv("RATE_DISPATCHER_FALLBACK", "")

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 4, cfg.Compensation.BatchConcurrency)
	assert.False(t, cfg.Compensation.AllowDispatcherFallback)
	assert.True(t, cfg.Compensation.Earnings.IncludeRoutes)
	assert.True(t, cfg.Compensation.Earnings.IncludeLegacyWeekly)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("BATCH_CONCURRENCY", "8")
	t.Setenv("RATE_DISPATCHER_FALLBACK", "true")
	t.Setenv("EARNINGS_INCLUDE_LEGACY_WEEKLY", "false")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8, cfg.Compensation.BatchConcurrency)
	assert.True(t, cfg.Compensation.AllowDispatcherFallback)
	assert.False(t, cfg.Compensation.Earnings.IncludeLegacyWeekly)
	assert.Equal(t, 500*time.Millisecond, cfg.Kafka.PollInterval)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("not a number", func(t *testing.T) {
		t.Setenv("BATCH_CONCURRENCY", "many")
		_, err := config.Load()
		assert.ErrorContains(t, err, "invalid BATCH_CONCURRENCY")
	})

	t.Run("not a bool", func(t *testing.T) {
		t.Setenv("RATE_DISPATCHER_FALLBACK", "sometimes")
		_, err := config.Load()
		assert.ErrorContains(t, err, "invalid RATE_DISPATCHER_FALLBACK")
	})

	t.Run("zero concurrency", func(t *testing.T) {
		t.Setenv("BATCH_CONCURRENCY", "0")
		_, err := config.Load()
		assert.ErrorContains(t, err, "BATCH_CONCURRENCY must be at least 1")
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, config.Default().Validate())

	cfg := config.Default()
	cfg.Compensation.PayoutDefaultPeriodDays = 0
	assert.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.Compensation.Earnings = config.EarningsConfig{}
	assert.ErrorContains(t, cfg.Validate(), "earnings source")
}
