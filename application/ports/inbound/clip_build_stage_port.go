package inbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

// BuildClipsParams limits clips to slides whose HTML and audio were produced by the current attempt.
type BuildClipsParams struct {
	RequestID   uuid.UUID
	Paths       domain.JobPaths
	MaxSlideID  int
	RenderedIDs map[int]struct{}
	NarratedIDs map[int]struct{}
}

type BuiltClip struct {
	SlideID int
	Path    string
}

type BuildClipsResult struct {
	Clips   []BuiltClip
	Skipped []domain.SkippedSlide
}

type ClipBuildStagePort interface {
	Build(ctx context.Context, params BuildClipsParams) (*BuildClipsResult, error)
}
