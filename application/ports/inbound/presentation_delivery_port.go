package inbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type DeliverPresentationParams struct {
	RequestID uuid.UUID
	Lesson    domain.LessonContent
	Metadata  domain.CourseMetadata
}

type DeliveryResult struct {
	Job        *domain.JobResult `json:"job"`
	ArchiveKey string            `json:"archive_key,omitempty"`
}

type PresentationDeliveryPort interface {
	RequestContent(ctx context.Context, requestID uuid.UUID, metadata domain.CourseMetadata) (*domain.LessonContent, error)
	ProcessAndDeliver(ctx context.Context, params DeliverPresentationParams) (*DeliveryResult, error)
	Transfer(ctx context.Context, requestID uuid.UUID, metadata domain.CourseMetadata) error
}
