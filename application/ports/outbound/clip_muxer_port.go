package outbound

import "context"

type MuxClipRequest struct {
	ImagePath  string
	AudioPath  string
	OutputPath string
}

type ClipMuxerPort interface {
	Mux(ctx context.Context, req MuxClipRequest) error
}
