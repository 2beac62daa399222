package config

import (
	"fmt"
	"os"
	"time"
)

type GatewayConfig struct {
	StoreApiUrl string
	ApiKey      string
	Timeout     time.Duration
}

func GetGatewayConfig() (*GatewayConfig, error) {
	apiUrl := os.Getenv("STORE_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("STORE_API_URL must be set")
	}
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY must be set")
	}
	timeout, err := getDurationEnv("STORE_API_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	return &GatewayConfig{
		StoreApiUrl: apiUrl,
		ApiKey:      apiKey,
		Timeout:     timeout,
	}, nil
}
