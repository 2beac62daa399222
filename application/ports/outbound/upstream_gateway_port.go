package outbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type StoreVideoRequest struct {
	RequestID uuid.UUID
	VideoPath string
	Metadata  domain.CourseMetadata
}

type UpstreamGatewayPort interface {
	StoreVideo(ctx context.Context, req StoreVideoRequest) error
}
