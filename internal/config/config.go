package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds service-level configuration read from the environment.
type Config struct {
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	HTTPPort       string
	SessionTTL     time.Duration
	StatsTTL       time.Duration
	PersistTimeout time.Duration
}

// Load reads configuration with sensible defaults.
func Load() *Config {
	return &Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnvOrDefault("MONGO_DB", "heartcheck"),
		RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		HTTPPort:       getEnvOrDefault("PORT", "8080"),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		StatsTTL:       time.Duration(getEnvInt("STATS_TTL_MINUTES", 30)) * time.Minute,
		PersistTimeout: time.Duration(getEnvInt("PERSIST_TIMEOUT_SECONDS", 5)) * time.Second,
	}
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
