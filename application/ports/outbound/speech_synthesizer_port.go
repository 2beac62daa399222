package outbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
)

type SynthesizeSpeechRequest struct {
	SlideID   int
	Text      string
	Language  domain.Language
	OutputDir string
}

type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, req SynthesizeSpeechRequest) (string, error)
}
