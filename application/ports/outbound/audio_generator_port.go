package outbound

import "context"

type GenerateAudioRequest struct {
	Text       string
	VoiceID    string
	OutputPath string
}

// AudioGeneratorPort is one text-to-speech backend. It writes exactly one audio file per call.
type AudioGeneratorPort interface {
	Generate(ctx context.Context, req GenerateAudioRequest) error
}
