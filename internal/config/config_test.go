package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.Development())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "*/5 * * * *", cfg.IngestCron)
	assert.True(t, cfg.SchedulerEnabled())
	assert.Equal(t, "http://localhost:9090/weather/alerts", cfg.WeatherAPIURL)
	assert.False(t, cfg.PublishEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("INGEST_TOKEN", "s3cret")
	t.Setenv("FETCH_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.False(t, cfg.Development())
	assert.Equal(t, "s3cret", cfg.IngestToken)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PublishEnabled())
}

func TestLoadRejectsBadCron(t *testing.T) {
	t.Setenv("INGEST_CRON", "every five minutes")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INGEST_CRON")
}

func TestLoadCronOffDisablesScheduler(t *testing.T) {
	t.Setenv("INGEST_CRON", "off")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.SchedulerEnabled())
}

func TestPublishEnabledOverride(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092")
	t.Setenv("KAFKA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.PublishEnabled())
}

func TestPublishEnabledRequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
