// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultOrigin = "http://localhost:8081"

// Config holds the application configuration.
type Config struct {
	Port           int
	ForkifyBaseURL string
	DatabaseURL    string // Postgres blob store when set
	StorageDir     string // file blob store when set and DatabaseURL is empty
	LogLevel       string
	LogFormat      string
	Environment    string
	SessionSize    int
	SessionTTL     time.Duration
	CookieMaxAge   time.Duration // lifetime of the client id that keys likes
	FetchTimeout   time.Duration
	AllowedOrigins []string
	PageSize       int
}

// Load reads a .env file if present, then environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		ForkifyBaseURL: getEnv("FORKIFY_BASE_URL", "https://forkify-api.herokuapp.com/api"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		StorageDir:     getEnv("STORAGE_DIR", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		Environment:    getEnv("ENVIRONMENT", "dev"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", defaultOrigin)),
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.SessionSize, err = getInt("SESSION_CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = getInt("RESULTS_PER_PAGE", 10); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.CookieMaxAge, err = getDuration("SESSION_COOKIE_MAX_AGE", 365*24*time.Hour); err != nil {
		return nil, err
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultOrigin}
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("RESULTS_PER_PAGE must be at least 1, got %d", cfg.PageSize)
	}
	if cfg.CookieMaxAge <= 0 {
		return nil, fmt.Errorf("SESSION_COOKIE_MAX_AGE must be positive, got %s", cfg.CookieMaxAge)
	}
	if cfg.SessionSize < 1 {
		return nil, fmt.Errorf("SESSION_CACHE_SIZE must be at least 1, got %d", cfg.SessionSize)
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, def int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
