package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type config struct {
	DatabaseURL       string        `yaml:"database_url"`
	HTTPAddr          string        `yaml:"http_addr"`
	AdminToken        string        `yaml:"admin_token"`
	SessionSecret     string        `yaml:"session_secret"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
	SessionCookie     string        `yaml:"session_cookie"`
	SecureCookies     bool          `yaml:"secure_cookies"`
	DefaultOperatorID int64         `yaml:"default_operator_id"`
}

// loadConfig layers defaults, the optional CONSOLE_CONFIG yaml file, then env.
func loadConfig() (config, error) {
	cfg := config{
		HTTPAddr:          ":8080",
		SessionTTL:        24 * time.Hour,
		SessionCookie:     "console_session",
		DefaultOperatorID: 1,
	}

	if path := os.Getenv("CONSOLE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.DatabaseURL = getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", cfg.DatabaseURL))
	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.AdminToken = getenvDefault("ADMIN_TOKEN", cfg.AdminToken)
	cfg.SessionSecret = getenvDefault("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = getenvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.SessionCookie = getenvDefault("SESSION_COOKIE", cfg.SessionCookie)
	cfg.SecureCookies = getenvBool("SECURE_COOKIES", cfg.SecureCookies)
	cfg.DefaultOperatorID = getenvInt64("DEFAULT_OPERATOR_ID", cfg.DefaultOperatorID)

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL or PG_DSN is required")
	}
	if cfg.AdminToken == "" {
		return cfg, errors.New("ADMIN_TOKEN is required")
	}
	if cfg.SessionSecret == "" {
		return cfg, errors.New("SESSION_SECRET is required")
	}
	if cfg.DefaultOperatorID <= 0 {
		return cfg, errors.New("DEFAULT_OPERATOR_ID must be positive")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
