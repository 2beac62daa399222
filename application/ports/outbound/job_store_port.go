package outbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type JobStorePort interface {
	Save(ctx context.Context, record domain.JobRecord) error
	Get(ctx context.Context, requestID uuid.UUID) (*domain.JobRecord, error)
}
