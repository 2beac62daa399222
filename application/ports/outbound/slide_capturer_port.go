package outbound

import "context"

type SlideCapturerPort interface {
	Capture(ctx context.Context, htmlPath string, imagePath string) error
}
