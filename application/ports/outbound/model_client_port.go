package outbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type ModelClientPort interface {
	GenerateContent(ctx context.Context, requestID uuid.UUID, metadata domain.CourseMetadata) (*domain.LessonContent, error)
}
