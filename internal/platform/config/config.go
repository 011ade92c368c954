package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTSecret      string
	Environment    string
	CacheTTL       time.Duration
	RunMigrations  bool
	RunSeed        bool
	MaxBodyBytes   int64
	MetricsEnabled bool
	StatementDir   string

	// RateLimitPerMinute caps requests per actor per minute. Zero disables
	// the limiter.
	RateLimitPerMinute int
}

// Load reads configuration from the environment, after loading a local
// .env file when one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:           getEnv("APP_ADDR", ":8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		Environment:    getEnv("APP_ENV", "development"),
		CacheTTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
		RunMigrations:  getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:        getEnvBool("RUN_SEED", false),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		StatementDir:   getEnv("STATEMENT_DIR", "storage/statements"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 300),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
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

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed {
			return fmt.Errorf("RUN_SEED must be disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}
