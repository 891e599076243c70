// Package config loads runtime configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the server.
type Config struct {
	Addr            string
	DBPath          string
	Environment     string
	LogLevel        string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, after loading an
// optional .env file. Missing keys fall back to development defaults.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine

	return Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "people.db"),
		Environment:     getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:  []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
