package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port            string
	LogLevel        string // debug, info, warn, error
	MaxBodyBytes    int
	ShutdownTimeout time.Duration

	// Reducer
	Strict bool

	// Persistence. Snapshots stay in memory when RedisAddr is empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	RedisRetries  int // attempts per snapshot operation; 1 disables retries
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Port:            getEnvOrDefault("THREADS_PORT", "8080"),
		LogLevel:        getEnvOrDefault("THREADS_LOG_LEVEL", "info"),
		MaxBodyBytes:    getEnvIntOrDefault("THREADS_MAX_BODY_BYTES", 4<<20),
		ShutdownTimeout: getEnvDurationOrDefault("THREADS_SHUTDOWN_TIMEOUT", 30*time.Second),
		Strict:          getEnvBoolOrDefault("THREADS_STRICT", false),
		RedisAddr:       os.Getenv("THREADS_REDIS_ADDR"),
		RedisPassword:   os.Getenv("THREADS_REDIS_PASSWORD"),
		RedisDB:         getEnvIntOrDefault("THREADS_REDIS_DB", 0),
		RedisPrefix:     getEnvOrDefault("THREADS_REDIS_PREFIX", "uistream:thread:"),
		RedisRetries:    getEnvIntOrDefault("THREADS_REDIS_RETRIES", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("THREADS_PORT must be a number, got %q", c.Port)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("THREADS_MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.RedisAddr != "" && c.RedisPrefix == "" {
		return fmt.Errorf("THREADS_REDIS_PREFIX must not be empty when THREADS_REDIS_ADDR is set")
	}
	if c.RedisRetries < 1 {
		return fmt.Errorf("THREADS_REDIS_RETRIES must be at least 1, got %d", c.RedisRetries)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
