package inbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type SynthesizeNarrationParams struct {
	RequestID uuid.UUID
	Paths     domain.JobPaths
	Speech    []domain.NarrationEntry
	Language  domain.Language
}

type SynthesizeNarrationResult struct {
	AudioFiles []domain.AudioArtifact
	Skipped    []domain.SkippedSlide
}

type NarrationStagePort interface {
	Synthesize(ctx context.Context, params SynthesizeNarrationParams) (*SynthesizeNarrationResult, error)
}
