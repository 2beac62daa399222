package config

import (
	"os"
	"time"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// GetRedisConfig returns nil when REDIS_ADDR is unset; job locks then fall back to lock files.
func GetRedisConfig() (*RedisConfig, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}
	db, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	lockTTL, err := getDurationEnv("REDIS_LOCK_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	return &RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		LockTTL:  lockTTL,
	}, nil
}
