package outbound

import (
	"context"
	"github.com/google/uuid"
)

type ArchiveVideoRequest struct {
	RequestID uuid.UUID
	VideoPath string
}

type ArchiveVideoResponse struct {
	VideoKey    string
	StoreRegion string
}

type VideoArchivePort interface {
	Archive(ctx context.Context, req ArchiveVideoRequest) (*ArchiveVideoResponse, error)
}
