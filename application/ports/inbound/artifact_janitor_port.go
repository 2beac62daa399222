package inbound

import "context"

type SweepReport struct {
	JobsScanned  int
	JobsSkipped  int
	FilesRemoved int
}

type ArtifactJanitorPort interface {
	Sweep(ctx context.Context) (*SweepReport, error)
}
