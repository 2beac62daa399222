package services

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
	"os"
	"path/filepath"
	"time"
)

type artifactJanitor struct {
	logger  outbound.LoggerPort
	layout  domain.ArtifactLayout
	jobLock outbound.JobLockPort
	maxAge  time.Duration
	now     func() time.Time
}

// NewArtifactJanitor removes transient leftovers of crashed jobs. Jobs whose lock is held are left alone.
func NewArtifactJanitor(logger outbound.LoggerPort, layout domain.ArtifactLayout, jobLock outbound.JobLockPort,
	maxAge time.Duration) inbound.ArtifactJanitorPort {
	return &artifactJanitor{
		logger:  logger,
		layout:  layout,
		jobLock: jobLock,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

func (j *artifactJanitor) Sweep(ctx context.Context) (*inbound.SweepReport, error) {
	report := &inbound.SweepReport{}
	entries, err := os.ReadDir(j.layout.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return report, nil
		}
		return nil, domain.Wrap(domain.KindInternal, "janitor", "list root", j.layout.Root, err)
	}

	cutoff := j.now().Add(-j.maxAge)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !entry.IsDir() {
			continue
		}
		requestID, err := uuid.Parse(entry.Name())
		if err != nil {
			continue
		}
		report.JobsScanned++

		release, err := j.jobLock.Acquire(ctx, requestID)
		if err != nil {
			report.JobsSkipped++
			if domain.KindOf(err) != domain.KindJobInProgress {
				j.logger.ErrorWithFields(err, "Janitor failed to lock job", map[string]interface{}{
					"request_id": requestID.String(),
				})
			}
			continue
		}
		report.FilesRemoved += j.sweepJob(j.layout.Job(requestID), cutoff)
		_ = release()
	}

	j.logger.InfoWithFields("Artifact sweep finished", map[string]interface{}{
		"scanned": report.JobsScanned,
		"skipped": report.JobsSkipped,
		"removed": report.FilesRemoved,
	})
	return report, nil
}

func (j *artifactJanitor) sweepJob(paths domain.JobPaths, cutoff time.Time) int {
	entries, err := os.ReadDir(paths.Dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !paths.IsTransient(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(paths.Dir, entry.Name())
		if err := os.Remove(path); err != nil {
			j.logger.Error(err, "Janitor failed to remove artifact")
			continue
		}
		removed++
	}
	return removed
}
