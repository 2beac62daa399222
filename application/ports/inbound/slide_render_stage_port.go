package inbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type RenderSlidesParams struct {
	RequestID uuid.UUID
	Paths     domain.JobPaths
	Slides    []domain.Slide
}

type RenderSlidesResult struct {
	Rendered []domain.SlideArtifact
	Skipped  []domain.SkippedSlide
}

type SlideRenderStagePort interface {
	Render(ctx context.Context, params RenderSlidesParams) (*RenderSlidesResult, error)
}
