package adapters

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"os"
)

type fileJobLock struct {
	logger outbound.LoggerPort
	layout domain.ArtifactLayout
}

// NewFileJobLock takes an advisory lock on the job's .lock file; it only serializes runs sharing one filesystem.
func NewFileJobLock(logger outbound.LoggerPort, layout domain.ArtifactLayout) outbound.JobLockPort {
	return &fileJobLock{
		logger: logger,
		layout: layout,
	}
}

func (l *fileJobLock) Acquire(_ context.Context, requestID uuid.UUID) (outbound.ReleaseFunc, error) {
	paths := l.layout.Job(requestID)
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return nil, domain.Wrap(domain.KindInternal, "lock", "create job dir", paths.Dir, err)
	}

	lock := flock.New(paths.LockFile())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "lock", "acquire", paths.LockFile(), err)
	}
	if !ok {
		return nil, domain.Wrap(domain.KindJobInProgress, "lock", "acquire", requestID.String(), nil)
	}

	return func() error {
		if err := lock.Unlock(); err != nil {
			l.logger.ErrorWithFields(err, "Failed to release job lock", map[string]interface{}{
				"request_id": requestID.String(),
			})
			return err
		}
		return nil
	}, nil
}
