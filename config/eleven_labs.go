package config

import (
	"fmt"
	"os"
	"strconv"
)

type ElevenLabsConfig struct {
	ApiUrl          string
	ApiKey          string
	ModelId         string
	Stability       float64
	SimilarityBoost float64
	DefaultVoiceID  string
	Voices          map[string]string
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	apiUrl := getEnvDefault("ELEVEN_LABS_API_URL", "https://api.elevenlabs.io/v1/text-to-speech")
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_API_KEY must be set")
	}
	modelId := getEnvDefault("ELEVEN_LABS_MODEL_ID", "eleven_multilingual_v2")
	stabilityVal, err := strconv.ParseFloat(getEnvDefault("ELEVEN_LABS_STABILITY", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse eleven labs stability: %w", err)
	}
	similarityBoostVal, err := strconv.ParseFloat(getEnvDefault("ELEVEN_LABS_SIMILARITY_BOOST", "0.75"), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse eleven labs similarity boost: %w", err)
	}
	defaultVoiceID := os.Getenv("ELEVEN_LABS_DEFAULT_VOICE_ID")
	if defaultVoiceID == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_DEFAULT_VOICE_ID must be set")
	}
	voices, err := parseMapping("ELEVEN_LABS_VOICES", os.Getenv("ELEVEN_LABS_VOICES"))
	if err != nil {
		return nil, err
	}

	return &ElevenLabsConfig{
		ApiUrl:          apiUrl,
		ApiKey:          apiKey,
		ModelId:         modelId,
		Stability:       stabilityVal,
		SimilarityBoost: similarityBoostVal,
		DefaultVoiceID:  defaultVoiceID,
		Voices:          voices,
	}, nil
}
