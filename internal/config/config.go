package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	API     APIConfig
	Decode  DecodeAPIConfig
	Recall  RecallAPIConfig
	Batch   BatchConfig
	Auth    AuthConfig
	Logging LoggingConfig
}

// APIConfig holds API server settings
type APIConfig struct {
	Host string
	Port string
}

// DecodeAPIConfig holds VIN decode upstream settings
type DecodeAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RecallAPIConfig holds recall upstream settings
type RecallAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BatchConfig holds bulk-resolution settings. MaxTokens caps how many tokens
// of one submission are considered; Concurrency bounds the decode fan-out.
type BatchConfig struct {
	MaxTokens   int
	Concurrency int
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	Enabled      bool
	SharedSecret string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			Host: getEnv("API_HOST", "0.0.0.0"),
			Port: getEnv("API_PORT", "8080"),
		},
		Decode: DecodeAPIConfig{
			BaseURL: getEnv("DECODE_API_URL", "https://vpic.nhtsa.dot.gov/api"),
			Timeout: parseDuration(getEnv("DECODE_API_TIMEOUT", "10s"), 10*time.Second),
		},
		Recall: RecallAPIConfig{
			BaseURL: getEnv("RECALL_API_URL", "https://api.nhtsa.gov"),
			Timeout: parseDuration(getEnv("RECALL_API_TIMEOUT", "10s"), 10*time.Second),
		},
		Batch: BatchConfig{
			MaxTokens:   parseInt(getEnv("BATCH_MAX_TOKENS", "50"), 50),
			Concurrency: parseInt(getEnv("BATCH_CONCURRENCY", "8"), 8),
		},
		Auth: AuthConfig{
			Enabled:      parseBool(getEnv("ENABLE_AUTH", "false")),
			SharedSecret: getEnv("SHARED_SECRET", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration fields are set and the
// resource-protection bounds are sane
func (c *Config) Validate() error {
	if c.Decode.BaseURL == "" {
		return fmt.Errorf("DECODE_API_URL is required")
	}
	if c.Recall.BaseURL == "" {
		return fmt.Errorf("RECALL_API_URL is required")
	}
	if c.Batch.MaxTokens <= 0 {
		return fmt.Errorf("BATCH_MAX_TOKENS must be positive")
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("BATCH_CONCURRENCY must be positive")
	}
	if c.Auth.Enabled && c.Auth.SharedSecret == "" {
		return fmt.Errorf("SHARED_SECRET is required when ENABLE_AUTH is true")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseInt(value string, defaultValue int) int {
	var result int
	_, err := fmt.Sscanf(value, "%d", &result)
	if err != nil {
		return defaultValue
	}
	return result
}

func parseBool(value string) bool {
	return value == "true" || value == "1" || value == "yes"
}
