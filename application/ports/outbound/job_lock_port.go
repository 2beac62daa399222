package outbound

import (
	"context"
	"github.com/google/uuid"
)

type ReleaseFunc func() error

// JobLockPort grants exclusive ownership of a job directory. Acquire fails with domain.ErrJobInProgress when the job is held elsewhere.
type JobLockPort interface {
	Acquire(ctx context.Context, requestID uuid.UUID) (ReleaseFunc, error)
}
