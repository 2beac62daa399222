package config

import (
	"os"
	"time"
)

type ModelConfig struct {
	ApiUrl  string
	Timeout time.Duration
}

// GetModelConfig returns nil when MODEL_API_URL is unset; the bundled mock lesson is served instead.
func GetModelConfig() (*ModelConfig, error) {
	apiUrl := os.Getenv("MODEL_API_URL")
	if apiUrl == "" {
		return nil, nil
	}
	timeout, err := getDurationEnv("MODEL_API_TIMEOUT", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	return &ModelConfig{
		ApiUrl:  apiUrl,
		Timeout: timeout,
	}, nil
}
