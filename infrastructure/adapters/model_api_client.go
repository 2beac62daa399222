package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
	"net/http"
	"strings"
)

type modelApiClient struct {
	ContentFetcher
	logger outbound.LoggerPort
	apiUrl string
}

func NewModelApiClient(fetcher ContentFetcher, logger outbound.LoggerPort, apiUrl string) outbound.ModelClientPort {
	return &modelApiClient{
		ContentFetcher: fetcher,
		logger:         logger,
		apiUrl:         strings.TrimRight(apiUrl, "/"),
	}
}

func (m *modelApiClient) GenerateContent(ctx context.Context, requestID uuid.UUID, metadata domain.CourseMetadata) (*domain.LessonContent, error) {
	metadata = metadata.WithDefaults()
	payload, err := json.Marshal(courseRequest{
		Language: string(metadata.Language),
		Topic:    metadata.Topic,
		Level:    metadata.Level,
		Axes:     metadata.Axes,
	})
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "model", "marshal request", "", err)
	}

	url := fmt.Sprintf("%s/generate/%s", m.apiUrl, requestID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "model", "build request", url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	m.logger.InfoWithFields("requesting lesson content", map[string]interface{}{
		"request_id": requestID.String(),
		"topic":      metadata.Topic,
	})
	body, err := m.FetchContent(req)
	if err != nil {
		return nil, domain.Wrap(domain.KindUpstreamUnavailable, "model", "generate", url, err)
	}

	var content domain.LessonContent
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, domain.Wrap(domain.KindUpstreamUnavailable, "model", "decode response", "", err)
	}
	return &content, nil
}
