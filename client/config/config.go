package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BackendURL   string
	Env          string
	PollInterval time.Duration
	HTTPTimeout  time.Duration
	KafkaBrokers []string
	KafkaTopic   string
	PreviewWidth int
}

func Load() *Config {
	return &Config{
		BackendURL:   getEnv("BACKEND_URL", "http://localhost:5000"),
		Env:          getEnv("ENV", "development"),
		PollInterval: getEnvAsDuration("POLL_INTERVAL", time.Second),
		HTTPTimeout:  getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		KafkaBrokers: getEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "task_events"),
		PreviewWidth: getEnvAsInt("PREVIEW_WIDTH", 60),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
