package outbound

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
)

type SlideRendererPort interface {
	Render(ctx context.Context, slide domain.Slide, outputPath string) error
}
