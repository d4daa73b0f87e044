package config

import (
	"os"
	"time"
)

// Server captures process-level configuration. Values come from the
// environment with development defaults so main stays lean.
type Server struct {
	Addr           string
	MetricsAddr    string
	DatabaseURL    string
	RedisURL       string
	JWTSigningKey  string
	AccessTokenTTL time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("DAYSTAR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	metricsAddr := os.Getenv("DAYSTAR_METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	tokenTTL := 24 * time.Hour
	if raw := os.Getenv("ACCESS_TOKEN_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			tokenTTL = parsed
		}
	}

	return Server{
		Addr:           addr,
		MetricsAddr:    metricsAddr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSigningKey:  jwtSigningKey,
		AccessTokenTTL: tokenTTL,
	}
}
