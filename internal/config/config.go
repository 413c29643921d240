package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	ServerPort       string
	JWTSecret        string
	TokenTTL         time.Duration
	LogLevel         string
	OperatorUsername string
	OperatorPassword string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseHost:     envOr("DATABASE_HOST", "localhost"),
		DatabasePort:     envOr("DATABASE_PORT", "5432"),
		DatabaseUser:     envOr("DATABASE_USER", "postgres"),
		DatabasePassword: envOr("DATABASE_PASSWORD", "password"),
		DatabaseName:     envOr("DATABASE_NAME", "vending"),
		ServerPort:       envOr("SERVER_PORT", "8080"),
		JWTSecret:        envOr("JWT_SECRET", "secret"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		OperatorUsername: envOr("OPERATOR_USERNAME", ""),
		OperatorPassword: envOr("OPERATOR_PASSWORD", ""),
	}

	ttl, err := time.ParseDuration(envOr("TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL: must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	return cfg, nil
}

// envOr treats a blank variable the same as an unset one.
func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
