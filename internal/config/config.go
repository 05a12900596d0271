package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	// Auction expiry sweep
	SweepInterval time.Duration

	// Rate limiting
	RateLimitWindow     time.Duration
	RateLimitBids       int
	RateLimitMilestones int
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "crewuser"),
		DBPassword:    getEnv("DB_PASSWORD", "crewpassword"),
		DBName:        getEnv("DB_NAME", "crewcard"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),

		SweepInterval: time.Duration(getEnvInt("AUCTION_SWEEP_SECONDS", 30)) * time.Second,

		RateLimitWindow:     time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		RateLimitBids:       getEnvInt("RATE_LIMIT_BIDS", 30),
		RateLimitMilestones: getEnvInt("RATE_LIMIT_MILESTONES", 20),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return defaultValue
}
