// Package config loads application configuration from environment variables.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; sub-configs group the optional infrastructure.
type Config struct {
	Env      string `validate:"required"`                          // APP_ENV (dev, test, prod)
	Port     string `validate:"required,numeric"`                  // APP_PORT
	LogLevel string `validate:"oneof=trace debug info warn error"` // LOG_LEVEL
	DBDriver string `validate:"oneof=mysql sqlite"`                // DB_DRIVER
	DBPath   string `validate:"required_if=DBDriver sqlite"`       // DB_PATH, sqlite file
	DBUser   string `validate:"required_if=DBDriver mysql"`        // DB_USER
	DBPass   string // DB_PASS (empty allowed)
	DBHost   string `validate:"required_if=DBDriver mysql"` // DB_HOST
	DBPort   string `validate:"omitempty,numeric"`          // DB_PORT
	DBName   string `validate:"required_if=DBDriver mysql"` // DB_NAME

	ShutdownTimeout time.Duration

	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Queue     QueueConfig
}

var validate = validator.New()

// Load reads the .env file (if any) and the process environment into a
// Config and validates it.  Unlike the optional blocks, the core server and
// database settings must be consistent or an error is returned.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "8080"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		DBDriver:        envStr("DB_DRIVER", "mysql"),
		DBPath:          envStr("DB_PATH", "venue-booking.db"),
		DBUser:          envStr("DB_USER", ""),
		DBPass:          envStr("DB_PASS", ""),
		DBHost:          envStr("DB_HOST", ""),
		DBPort:          envStr("DB_PORT", "3306"),
		DBName:          envStr("DB_NAME", ""),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis:           LoadRedisConfig(),
		Cache:           LoadCacheConfig(),
		RateLimit:       LoadRateLimitConfig(),
		Queue:           LoadQueueConfig(),
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
