package config

import (
	"fmt"
	"time"
)

type CaptureConfig struct {
	ChromePath  string
	Width       int
	Height      int
	SettleDelay time.Duration
	PoolSize    int
	Timeout     time.Duration
}

func GetCaptureConfig() (*CaptureConfig, error) {
	width, err := getIntEnv("CAPTURE_WIDTH", 1920)
	if err != nil {
		return nil, err
	}
	height, err := getIntEnv("CAPTURE_HEIGHT", 1080)
	if err != nil {
		return nil, err
	}
	settle, err := getDurationEnv("CAPTURE_SETTLE_DELAY", 4*time.Second)
	if err != nil {
		return nil, err
	}
	poolSize, err := getIntEnv("BROWSER_POOL_SIZE", 2)
	if err != nil {
		return nil, err
	}
	if poolSize < 1 {
		return nil, fmt.Errorf("BROWSER_POOL_SIZE must be positive")
	}
	timeout, err := getDurationEnv("CAPTURE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}

	return &CaptureConfig{
		ChromePath:  getEnvDefault("CHROME_PATH", ""),
		Width:       width,
		Height:      height,
		SettleDelay: settle,
		PoolSize:    poolSize,
		Timeout:     timeout,
	}, nil
}
