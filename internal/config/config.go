package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string

	Storage string // "postgres" or "memory"
	DBDSN   string // required when Storage is "postgres"

	RedisAddr    string // optional; enables the user lookup cache
	UserCacheTTL time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string // "json" or "console"
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.IsProduction = getEnv("APP_ENV", "dev") == "prod"
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.Storage = getEnv("STORAGE", StoragePostgres)
	if cfg.Storage != StoragePostgres && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.Storage)
	}

	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.Storage == StoragePostgres && cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required when STORAGE=%s", StoragePostgres)
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")

	ttlStr := getEnv("USER_CACHE_TTL", "30s")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid USER_CACHE_TTL: %w", err)
	}
	cfg.UserCacheTTL = ttl

	rps, err := getEnvAsFloat("RATE_LIMIT_RPS", 50)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitRPS = rps

	burst, err := getEnvAsInt("RATE_LIMIT_BURST", 100)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = burst

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid number: %w", key, valStr, err)
	}
	return val, nil
}
