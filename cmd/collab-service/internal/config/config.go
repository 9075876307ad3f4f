package config

import (
	"os"

	"github.com/codehuddle/backend/internal/execution"
)

// Config holds the process configuration, all supplied via environment.
type Config struct {
	Port             string
	ExecEndpoint     string
	ExecClientID     string
	ExecClientSecret string
	RedisAddr        string // empty disables rate limiting
	DatabaseURL      string // empty disables execution history
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		ExecEndpoint:     getEnv("EXEC_ENDPOINT", execution.DefaultEndpoint),
		ExecClientID:     getEnv("JD_CLIENT_ID", ""),
		ExecClientSecret: getEnv("JD_CLIENT_SECRET", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
