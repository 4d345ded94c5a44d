package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/inventory-console/internal/item/domain"
)

// UpstreamConfig holds configuration for the remote item service
type UpstreamConfig struct {
	BaseURL string
	// Zero means no client-side timeout
	Timeout time.Duration
}

// TracingConfig holds the OpenTelemetry exporter settings
type TracingConfig struct {
	Enabled        bool
	JaegerEndpoint string
}

// KafkaConfig enables the Kafka notification bridge when Brokers is non-empty
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// RedisConfig enables the Redis notification bridge when Addr is non-empty
type RedisConfig struct {
	Addr     string
	Password string
	Channel  string
}

// ConsoleConfig holds the main console configuration
type ConsoleConfig struct {
	Port            string
	ServiceName     string
	Environment     string
	LogLevel        string
	DefaultRole     domain.Role
	SearchThreshold float64
	AllowedOrigins  []string
	Upstream        UpstreamConfig
	Tracing         TracingConfig
	Kafka           KafkaConfig
	Redis           RedisConfig
}

// IsDevelopment reports whether the console runs in development mode
func (c *ConsoleConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads an optional .env file and then the environment
func LoadConfig() (*ConsoleConfig, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("INVENTORY_API_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INVENTORY_API_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid INVENTORY_API_TIMEOUT: %s is negative", timeout)
	}

	role, err := domain.ParseRole(getEnv("DEFAULT_ROLE", string(domain.RoleAdmin)))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_ROLE: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("SEARCH_THRESHOLD", "0.4"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_THRESHOLD: %w", err)
	}
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("invalid SEARCH_THRESHOLD: %v is outside (0, 1]", threshold)
	}

	tracingEnabled, err := strconv.ParseBool(getEnv("TRACING_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	return &ConsoleConfig{
		Port:            getEnv("CONSOLE_PORT", "8090"),
		ServiceName:     getEnv("OTEL_SERVICE_NAME", "inventory-console"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DefaultRole:     role,
		SearchThreshold: threshold,
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		Upstream: UpstreamConfig{
			BaseURL: getEnv("INVENTORY_API_URL", "http://localhost:8080"),
			Timeout: timeout,
		},
		Tracing: TracingConfig{
			Enabled:        tracingEnabled,
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "inventory-updated"),
			GroupID: getEnv("KAFKA_GROUP_ID", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			Channel:  getEnv("REDIS_CHANNEL", "inventory:updated"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
