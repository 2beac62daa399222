package inbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type PresentationQueryPort interface {
	SlidesManifest(requestID uuid.UUID) ([]byte, error)
	SlideHTMLPath(requestID uuid.UUID, slideID int) (string, error)
	AudioPath(requestID uuid.UUID, slideID int) (string, error)
	Status(ctx context.Context, requestID uuid.UUID) (*domain.JobRecord, error)
}
