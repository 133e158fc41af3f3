package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything main needs to wire the service: the HTTP
// listener, the two backend connections and the session-token parameters.
// Values come from the environment (optionally a .env file loaded by main).
type Config struct {
	Addr          string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	TokenTTL      time.Duration
}

func Load() Config {
	port := envOrDefault("PORT", "8080")
	dsn := envOrDefault("POSTGRES_DSN",
		"host=localhost user=user password=password dbname=pairchatdb port=5432 sslmode=disable")

	ttlHours, err := strconv.Atoi(envOrDefault("TOKEN_TTL_HOURS", "72"))
	if err != nil || ttlHours <= 0 {
		ttlHours = 72
	}
	redisDB, err := strconv.Atoi(envOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		redisDB = 0
	}

	return Config{
		Addr:          ":" + port,
		PostgresDSN:   dsn,
		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		JWTSecret:     envOrDefault("JWT_SECRET", "dev-only-secret"),
		TokenTTL:      time.Duration(ttlHours) * time.Hour,
	}
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
