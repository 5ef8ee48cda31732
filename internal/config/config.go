package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds push relay configuration loaded from the environment.
type Config struct {
	AppName             string
	LogLevel            string
	HTTPPort            string
	Origin              string
	RabbitURL           string
	PushQueue           string
	DeadLetterQueue     string
	PrefetchCount       int
	WorkerCount         int
	DatabaseURL         string
	RedisURL            string
	DeliveryTable       string
	NotificationTTL     time.Duration
	NotifyEndpoint      string
	NotifyAuthKey       string
	NotifyTimeout       time.Duration
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	SplashAttempts      int
	SplashDelay         time.Duration
}

// Load loads configuration and performs basic validation.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:             getEnv("APP_NAME", "push_relay"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		HTTPPort:            getEnv("HTTP_PORT", "8082"),
		Origin:              getEnv("APP_ORIGIN", "https://gorilapadel.com"),
		RabbitURL:           getEnv("RABBITMQ_URL", ""),
		PushQueue:           getEnv("PUSH_QUEUE", "push.queue"),
		DeadLetterQueue:     getEnv("PUSH_DLQ", "failed.queue"),
		PrefetchCount:       getEnvAsInt("PUSH_PREFETCH", 100),
		WorkerCount:         getEnvAsInt("WORKER_COUNT", 5),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		DeliveryTable:       getEnv("DELIVERY_TABLE", "push_deliveries"),
		NotificationTTL:     getEnvAsDuration("NOTIFICATION_TTL", 24*time.Hour),
		NotifyEndpoint:      getEnv("NOTIFY_ENDPOINT", ""),
		NotifyAuthKey:       getEnv("NOTIFY_AUTH_KEY", ""),
		NotifyTimeout:       getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
		RetryMaxAttempts:    getEnvAsInt("RETRY_MAX_ATTEMPTS", 4),
		RetryInitialBackoff: getEnvAsDuration("RETRY_INITIAL_BACKOFF", time.Second),
		RetryMaxBackoff:     getEnvAsDuration("RETRY_MAX_BACKOFF", 15*time.Second),
		SplashAttempts:      getEnvAsInt("SPLASH_ATTEMPTS", 3),
		SplashDelay:         getEnvAsDuration("SPLASH_DELAY", 500*time.Millisecond),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.RabbitURL == "" {
		missing = append(missing, "RABBITMQ_URL")
	}
	if c.NotifyEndpoint == "" {
		missing = append(missing, "NOTIFY_ENDPOINT")
	}
	if c.Origin == "" {
		missing = append(missing, "APP_ORIGIN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}

func getEnv(key, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func getEnvAsInt(key string, def int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("invalid int for %s, using default %d: %v", key, def, err)
			return def
		}
		return i
	}
	return def
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("invalid duration for %s, using default %s: %v", key, def, err)
			return def
		}
		return d
	}
	return def
}
