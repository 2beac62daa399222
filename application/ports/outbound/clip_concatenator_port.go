package outbound

import "context"

type ConcatenateClipsRequest struct {
	Clips        []string
	ManifestPath string
	PartialPath  string
	OutputPath   string
}

type ClipConcatenatorPort interface {
	Concatenate(ctx context.Context, req ConcatenateClipsRequest) error
}
