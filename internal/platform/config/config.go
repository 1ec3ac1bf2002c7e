// Package config builds runtime configuration from environment variables so
// main stays lean. Every knob has a development default; production overrides
// via env.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "ongfinder/pkg/platform/strings"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// DatabaseURL is a lib/pq DSN. Empty selects the in-memory stores, which
	// keeps local development and handler tests free of infrastructure.
	DatabaseURL string

	// RedisAddr backs the login throttle. Empty selects the in-memory store.
	RedisAddr     string
	RedisPassword string

	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration

	// Login throttle: LoginMaxFailures failed attempts per LoginWindow blocks
	// further attempts for the remainder of the window.
	LoginMaxFailures int
	LoginWindow      time.Duration

	// AuditKafkaBrokers enables the Kafka audit sink when non-empty.
	AuditKafkaBrokers []string
	AuditKafkaTopic   string
}

// FromEnv reads configuration from the environment.
func FromEnv() Server {
	return Server{
		Addr:              envOr("ONGFINDER_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:         envOr("JWT_ISSUER", "ongfinder"),
		TokenTTL:          envDurationOr("TOKEN_TTL", 24*time.Hour),
		LoginMaxFailures:  envIntOr("LOGIN_MAX_FAILURES", 10),
		LoginWindow:       envDurationOr("LOGIN_WINDOW", 15*time.Minute),
		AuditKafkaBrokers: splitList(os.Getenv("AUDIT_KAFKA_BROKERS")),
		AuditKafkaTopic:   envOr("AUDIT_KAFKA_TOPIC", "ongfinder.audit"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return pstrings.DedupeAndTrim(strings.Split(v, ","))
}
