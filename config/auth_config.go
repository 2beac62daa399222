package config

import (
	"fmt"
	"os"
)

// AuthorizerConfig holds client credentials for the token endpoint used when calling the store service.
type AuthorizerConfig struct {
	ClientID      string
	ClientSecret  string
	TokenEndpoint string
}

// NewAuthorizerConfig returns nil when client credentials are not configured.
func NewAuthorizerConfig() (*AuthorizerConfig, error) {
	clientID := os.Getenv("CLIENT_ID")
	if clientID == "" {
		return nil, nil
	}

	clientSecret := os.Getenv("CLIENT_SECRET")
	if clientSecret == "" {
		return nil, fmt.Errorf("CLIENT_SECRET environment variable not set")
	}

	tokenEndpoint := os.Getenv("TOKEN_ENDPOINT")
	if tokenEndpoint == "" {
		return nil, fmt.Errorf("TOKEN_ENDPOINT environment variable not set")
	}
	return &AuthorizerConfig{
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		TokenEndpoint: tokenEndpoint,
	}, nil
}

type InboundAuthConfig struct {
	ApiKey        string
	JwksUrl       string
	RequiredScope string
}

func GetInboundAuthConfig() (*InboundAuthConfig, error) {
	apiKey := os.Getenv("API_KEY")
	jwksUrl := os.Getenv("JWKS_URL")
	if apiKey == "" && jwksUrl == "" {
		return nil, fmt.Errorf("API_KEY or JWKS_URL must be set")
	}
	return &InboundAuthConfig{
		ApiKey:        apiKey,
		JwksUrl:       jwksUrl,
		RequiredScope: os.Getenv("JWT_REQUIRED_SCOPE"),
	}, nil
}
