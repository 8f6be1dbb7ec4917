package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Bridge record provider.
	BridgeStoreURL  string
	BridgeCacheSize int
	FetchTimeout    time.Duration
	FetchRetries    int

	// Engine policy.
	WarningMargin float64 // feet below the low chord that counts as "approaching"
	ForecastSteps int     // required flow count per request; 0 accepts any non-empty length

	// Kafka risk alerting (feature-flagged).
	AlertsEnabled bool
	KafkaBrokers  []string
	AlertTopic    string
}

// Defaults for tunable policy. The 2.0 ft warning margin matches the middle
// step of the precomputed warning-zone ladder in the bridge objects.
const (
	DefaultWarningMargin = 2.0
	DefaultForecastSteps = 18
)

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	warningMargin, err := parseFloat("WARNING_MARGIN", DefaultWarningMargin)
	if err != nil {
		return nil, err
	}
	if warningMargin < 0 {
		return nil, errors.New("WARNING_MARGIN must be non-negative")
	}

	forecastSteps, err := parseInt("FORECAST_STEPS", DefaultForecastSteps)
	if err != nil {
		return nil, err
	}
	if forecastSteps < 0 {
		return nil, errors.New("FORECAST_STEPS must be non-negative")
	}

	cacheSize, err := parseInt("BRIDGE_CACHE_SIZE", 4096)
	if err != nil {
		return nil, err
	}
	if cacheSize < 1 {
		return nil, errors.New("BRIDGE_CACHE_SIZE must be positive")
	}

	fetchRetries, err := parseInt("FETCH_RETRIES", 2)
	if err != nil {
		return nil, err
	}
	if fetchRetries < 0 {
		return nil, errors.New("FETCH_RETRIES must be non-negative")
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	alertsEnabled := len(brokers) > 0
	if v := os.Getenv("ALERTS_ENABLED"); v != "" {
		alertsEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		BridgeStoreURL:  envOrDefault("BRIDGE_STORE_URL", "https://txbridge-data.s3.amazonaws.com/bridge_json"),
		BridgeCacheSize: cacheSize,
		FetchTimeout:    fetchTimeout,
		FetchRetries:    fetchRetries,

		WarningMargin: warningMargin,
		ForecastSteps: forecastSteps,

		AlertsEnabled: alertsEnabled,
		KafkaBrokers:  brokers,
		AlertTopic:    envOrDefault("ALERT_TOPIC", "bridge-flood-alerts"),
	}

	if cfg.BridgeStoreURL == "" {
		return nil, errors.New("BRIDGE_STORE_URL is required")
	}
	if cfg.AlertsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("ALERTS_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.AlertsEnabled && cfg.AlertTopic == "" {
		return nil, errors.New("ALERTS_ENABLED is true but ALERT_TOPIC is empty")
	}

	return cfg, nil
}

// envOrDefault distinguishes unset from explicitly empty: an empty value
// overrides the default, so required-field validation can catch it.
func envOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
