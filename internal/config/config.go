package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	Location        *time.Location

	// Kakao geocoding configuration.
	KakaoAPIKey       string
	KakaoEnabled      bool
	KakaoBaseURL      string
	GeocoderTimeout   time.Duration
	GeocoderCacheSize int

	// KMA forecast configuration.
	KMAServiceKey string
	KMABaseURL    string
	KMATimeout    time.Duration

	// Kafka request pipeline configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
	ResolveConcurrency int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	geocoderTimeout, err := parsePositiveDuration("GEOCODER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	kmaTimeout, err := parsePositiveDuration("KMA_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	concurrency, err := parseConcurrency()
	if err != nil {
		return nil, err
	}

	tz := sharedcfg.EnvOrDefault("TIMEZONE", "Asia/Seoul")
	location, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	kakaoKey := os.Getenv("KAKAO_API_KEY")
	kakaoEnabled := kakaoKey != ""
	if v := os.Getenv("KAKAO_ENABLED"); v != "" {
		kakaoEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		Location:        location,

		KakaoAPIKey:       kakaoKey,
		KakaoEnabled:      kakaoEnabled,
		KakaoBaseURL:      sharedcfg.EnvOrDefault("KAKAO_BASE_URL", "https://dapi.kakao.com"),
		GeocoderTimeout:   geocoderTimeout,
		GeocoderCacheSize: cacheSize,

		KMAServiceKey: os.Getenv("KMA_SERVICE_KEY"),
		KMABaseURL:    sharedcfg.EnvOrDefault("KMA_BASE_URL", "http://apis.data.go.kr/1360000"),
		KMATimeout:    kmaTimeout,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "weather-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "resolved-weather"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "forecast-resolver"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		ResolveConcurrency: concurrency,
	}

	if cfg.KakaoEnabled && cfg.KakaoAPIKey == "" {
		return nil, errors.New("KAKAO_ENABLED is true but KAKAO_API_KEY is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

// ForecastsEnabled reports whether a KMA service key is configured. Without
// one every resolution falls back to climate averages.
func (c *Config) ForecastsEnabled() bool {
	return c.KMAServiceKey != ""
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("GEOCODER_CACHE_SIZE")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid GEOCODER_CACHE_SIZE")
	}
	return n, nil
}

func parseConcurrency() (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault("RESOLVE_CONCURRENCY", "8"))
	if err != nil || n <= 0 {
		return 0, errors.New("invalid RESOLVE_CONCURRENCY")
	}
	return n, nil
}
