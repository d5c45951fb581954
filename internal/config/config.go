package config

import (
	"os"
	"strconv"
	"time"

	"soko-service/internal/pkg/token"
)

type AppConfig struct {
	// Server
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string

	// Token signing
	Token token.Config

	// Session store
	SessionTTL        time.Duration
	SessionRenewAfter time.Duration
	SessionWriters    int

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
	SMTPFromName string
	SMSGateway   string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", "redis-soko:6379"),
		RedisPass:   getEnv("REDIS_PASS", ""),

		Token: token.Config{
			Secret:    getEnv("JWT_SECRET", ""),
			Algorithm: getEnv("JWT_ALG", "HS256"),
			Issuer:    getEnv("JWT_ISSUER", "soko-service"),
			CodeTTL:   getEnvDuration("CODE_TTL", 3*time.Minute),
			AnonTTL:   getEnvDuration("ANON_TTL", 30*time.Minute),
		},

		SessionTTL:        getEnvDuration("SESSION_TTL", 14*24*time.Hour),
		SessionRenewAfter: getEnvDuration("SESSION_RENEW_AFTER", 10*time.Minute),
		SessionWriters:    getEnvInt("SESSION_WRITERS", 2),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Soko"),
		SMSGateway:   getEnv("SMS_GATEWAY_DOMAIN", ""),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
