package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string

	// DefaultRole is assigned at registration when no role is supplied.
	DefaultRole string

	// SeedUsersFile, when set, points at a usuarios.csv whose grid is
	// loaded into the store at startup if no grid is persisted yet.
	SeedUsersFile string

	// SeedPassword is the initial password for users created by grid
	// seeding. Existing users keep their password.
	SeedPassword string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "inventario-backend"),
		CORSOrigins:   parseList(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		DefaultRole:   fallback(os.Getenv("DEFAULT_ROLE"), "INSPECTOR"),
		SeedUsersFile: strings.TrimSpace(os.Getenv("SEED_USERS_FILE")),
		SeedPassword:  fallback(os.Getenv("SEED_DEFAULT_PASSWORD"), "password123"),
	}

	hours := fallback(os.Getenv("JWT_TTL_HOURS"), "12")
	if ttlHours, err := strconv.Atoi(hours); err == nil && ttlHours > 0 {
		cfg.JWTTTL = time.Duration(ttlHours) * time.Hour
	} else {
		cfg.JWTTTL = 12 * time.Hour
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseList(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
