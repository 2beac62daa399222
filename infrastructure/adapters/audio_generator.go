package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/config"
	"github.com/MonsefRH/E-learn/domain"
	"net/http"
)

type ElevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelId       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsAudioGenerator struct {
	ContentFetcher
	elevenLabsConfig *config.ElevenLabsConfig
	logger           outbound.LoggerPort
}

func NewElevenLabsAudioGenerator(contentFetcher ContentFetcher, elevenLabsConfig *config.ElevenLabsConfig, logger outbound.LoggerPort) outbound.AudioGeneratorPort {
	return &elevenLabsAudioGenerator{
		ContentFetcher:   contentFetcher,
		elevenLabsConfig: elevenLabsConfig,
		logger:           logger,
	}
}

func (a *elevenLabsAudioGenerator) Generate(ctx context.Context, params outbound.GenerateAudioRequest) error {
	req, err := a.getRequest(ctx, params.Text, params.VoiceID)
	if err != nil {
		a.logger.ErrorWithFields(err, "Failed to construct the HTTP request for audio fetching", map[string]interface{}{
			"voice_id": params.VoiceID,
		})
		return err
	}

	written, err := a.FetchToFile(req, params.OutputPath)
	if err != nil {
		return domain.Wrap(domain.KindUpstreamUnavailable, "speech", "elevenlabs", "", err)
	}
	if written == 0 {
		return domain.Wrap(domain.KindUpstreamUnavailable, "speech", "elevenlabs", "empty audio payload", nil)
	}
	return nil
}

func (a *elevenLabsAudioGenerator) getRequest(ctx context.Context, text string, voiceID string) (*http.Request, error) {
	reqBody := ElevenLabsRequest{
		Text:    text,
		ModelId: a.elevenLabsConfig.ModelId,
		VoiceSettings: VoiceSettings{
			Stability:       a.elevenLabsConfig.Stability,
			SimilarityBoost: a.elevenLabsConfig.SimilarityBoost,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal elevenlabs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.elevenLabsConfig.ApiUrl+"/"+voiceID, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	reqHeaders := map[string]string{
		"Accept":       "audio/mpeg",
		"xi-api-key":   a.elevenLabsConfig.ApiKey,
		"Content-Type": "application/json",
	}
	for key, value := range reqHeaders {
		req.Header.Add(key, value)
	}

	return req, nil
}
