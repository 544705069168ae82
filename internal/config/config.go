// Package config gathers every runtime setting from the environment.
// A .env file in the working directory is loaded first when present,
// so local development does not need exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend selectors for STORAGE_BACKEND.
const (
	StoragePostgres = "postgres"
	StorageFile     = "file"
)

type Config struct {
	Port string

	StorageBackend string

	DBUser     string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string

	// DataDir holds the JSON collection files when the file backend
	// is selected.
	DataDir string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		StorageBackend: getEnv("STORAGE_BACKEND", StoragePostgres),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "ritmo-engine"),
	}

	if cfg.StorageBackend != StoragePostgres && cfg.StorageBackend != StorageFile {
		return nil, fmt.Errorf("config: unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	ttlHours, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "72"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid JWT_TTL_HOURS: %w", err)
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	return cfg, nil
}

// PostgresDSN builds the connection string for the pgx stdlib driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// RedisEnabled reports whether a Redis host was configured. Redis is
// optional: without it the API still runs, just without the cache,
// the rate limiter, or the Redis blob store.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
