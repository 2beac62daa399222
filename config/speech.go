package config

import (
	"fmt"
	"os"
	"time"
)

const (
	SpeechBackendEdgeTTS    = "edge-tts"
	SpeechBackendElevenLabs = "elevenlabs"
)

type SpeechConfig struct {
	Backend       string
	EdgeTTSBinary string
	DefaultVoice  string
	Voices        map[string]string
	Timeout       time.Duration
}

func DefaultEdgeVoices() map[string]string {
	return map[string]string{
		"en": "en-US-AriaNeural",
		"fr": "fr-FR-DeniseNeural",
		"es": "es-ES-ElviraNeural",
		"it": "it-IT-ElsaNeural",
	}
}

func GetSpeechConfig() (*SpeechConfig, error) {
	backend := getEnvDefault("SPEECH_BACKEND", SpeechBackendEdgeTTS)
	if backend != SpeechBackendEdgeTTS && backend != SpeechBackendElevenLabs {
		return nil, fmt.Errorf("SPEECH_BACKEND must be %q or %q", SpeechBackendEdgeTTS, SpeechBackendElevenLabs)
	}
	voices := DefaultEdgeVoices()
	overrides, err := parseMapping("TTS_VOICES", os.Getenv("TTS_VOICES"))
	if err != nil {
		return nil, err
	}
	for lang, voice := range overrides {
		voices[lang] = voice
	}
	timeout, err := getDurationEnv("SPEECH_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}

	return &SpeechConfig{
		Backend:       backend,
		EdgeTTSBinary: getEnvDefault("EDGE_TTS_BINARY", "edge-tts"),
		DefaultVoice:  getEnvDefault("TTS_DEFAULT_VOICE", "en-US-AriaNeural"),
		Voices:        voices,
		Timeout:       timeout,
	}, nil
}
