package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/config"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type clientCredentialsAuthorizer struct {
	logger outbound.LoggerPort
	conf   *config.AuthorizerConfig
	client *http.Client
	now    func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewClientCredentialsAuthorizer fetches OAuth2 client credential tokens and caches them until shortly before expiry.
func NewClientCredentialsAuthorizer(logger outbound.LoggerPort, conf *config.AuthorizerConfig, client *http.Client) Authorizer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &clientCredentialsAuthorizer{
		logger: logger,
		conf:   conf,
		client: client,
		now:    time.Now,
	}
}

func (a *clientCredentialsAuthorizer) Authorize(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token != "" && a.now().Before(a.expiresAt) {
		return a.token, nil
	}

	clientCredentials := base64.StdEncoding.EncodeToString([]byte(a.conf.ClientID + ":" + a.conf.ClientSecret))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.conf.TokenEndpoint, strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+clientCredentials)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error(err, "Failed to send the token request")
		return "", err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			a.logger.Error(err, "Failed to close the response body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResponse TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		a.logger.Error(err, "Failed to decode the token response")
		return "", err
	}
	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty access token")
	}

	lifetime := time.Duration(tokenResponse.ExpiresIn) * time.Second
	if lifetime > time.Minute {
		lifetime -= time.Minute
	}
	a.token = tokenResponse.AccessToken
	a.expiresAt = a.now().Add(lifetime)
	a.logger.Debug("Obtained store service access token")

	return a.token, nil
}
