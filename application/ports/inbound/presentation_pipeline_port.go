package inbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type GeneratePresentationParams struct {
	RequestID uuid.UUID
	Slides    []domain.Slide
	Speech    []domain.NarrationEntry
	Language  domain.Language
}

type PresentationPipelinePort interface {
	Generate(ctx context.Context, params GeneratePresentationParams) (*domain.JobResult, error)
}
