package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker = "localhost:9092"
	testKakaoKey  = "kakao-test-key"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "Asia/Seoul", cfg.Location.String())

	assert.False(t, cfg.KakaoEnabled)
	assert.Empty(t, cfg.KakaoAPIKey)
	assert.Equal(t, "https://dapi.kakao.com", cfg.KakaoBaseURL)
	assert.Equal(t, 5*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, 0, cfg.GeocoderCacheSize)

	assert.Empty(t, cfg.KMAServiceKey)
	assert.False(t, cfg.ForecastsEnabled())
	assert.Equal(t, "http://apis.data.go.kr/1360000", cfg.KMABaseURL)
	assert.Equal(t, 5*time.Second, cfg.KMATimeout)

	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "weather-requests", cfg.KafkaSourceTopic)
	assert.Equal(t, "resolved-weather", cfg.KafkaSinkTopic)
	assert.Equal(t, "forecast-resolver", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, 8, cfg.ResolveConcurrency)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("KAKAO_API_KEY", testKakaoKey)
	t.Setenv("KAKAO_BASE_URL", "http://localhost:8081")
	t.Setenv("GEOCODER_TIMEOUT", "2s")
	t.Setenv("GEOCODER_CACHE_SIZE", "500")
	t.Setenv("KMA_SERVICE_KEY", "kma-key")
	t.Setenv("KMA_BASE_URL", "http://localhost:8082")
	t.Setenv("KMA_TIMEOUT", "3s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.True(t, cfg.KakaoEnabled)
	assert.Equal(t, testKakaoKey, cfg.KakaoAPIKey)
	assert.Equal(t, "http://localhost:8081", cfg.KakaoBaseURL)
	assert.Equal(t, 2*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, 500, cfg.GeocoderCacheSize)
	assert.True(t, cfg.ForecastsEnabled())
	assert.Equal(t, "http://localhost:8082", cfg.KMABaseURL)
	assert.Equal(t, 3*time.Second, cfg.KMATimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidTimeouts(t *testing.T) {
	for _, key := range []string{"GEOCODER_TIMEOUT", "KMA_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "bad")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
		t.Run(key+" negative", func(t *testing.T) {
			t.Setenv(key, "-1s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	t.Setenv("GEOCODER_CACHE_SIZE", "-5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODER_CACHE_SIZE")
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestLoad_KakaoEnabledWithoutKey(t *testing.T) {
	t.Setenv("KAKAO_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAKAO_API_KEY")
}

func TestLoad_KakaoExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAKAO_API_KEY", testKakaoKey)
	t.Setenv("KAKAO_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KakaoEnabled)
}

func TestLoad_ResolveConcurrency(t *testing.T) {
	t.Setenv("RESOLVE_CONCURRENCY", "16")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.ResolveConcurrency)

	for _, v := range []string{"0", "-2", "many"} {
		t.Setenv("RESOLVE_CONCURRENCY", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "RESOLVE_CONCURRENCY")
	}
}
