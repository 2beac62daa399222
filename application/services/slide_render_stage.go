package services

import (
	"context"
	"encoding/json"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"os"
	"sort"
	"sync"
)

type slideRenderStage struct {
	logger     outbound.LoggerPort
	renderer   outbound.SlideRendererPort
	workerPool outbound.TaskDispatcher
}

func NewSlideRenderStage(logger outbound.LoggerPort, renderer outbound.SlideRendererPort,
	workerPool outbound.TaskDispatcher) inbound.SlideRenderStagePort {
	return &slideRenderStage{
		logger:     logger,
		renderer:   renderer,
		workerPool: workerPool,
	}
}

func (s *slideRenderStage) Render(ctx context.Context, params inbound.RenderSlidesParams) (*inbound.RenderSlidesResult, error) {
	valid, rejected := domain.ValidateSlides(params.Slides)
	result := &inbound.RenderSlidesResult{
		Rendered: make([]domain.SlideArtifact, 0, len(valid)),
	}
	for _, r := range rejected {
		s.logger.WarnWithFields("Skipping slide", map[string]interface{}{
			"request_id": params.RequestID.String(),
			"reason":     r.Error(),
		})
		result.Skipped = append(result.Skipped, domain.SkippedSlide{
			SlideID: r.SlideID,
			Kind:    domain.KindValidation,
			Reason:  r.Reason,
		})
	}

	if err := os.MkdirAll(params.Paths.SlidesDir(), 0o755); err != nil {
		return nil, domain.Wrap(domain.KindInternal, "render", "create slides dir", params.Paths.SlidesDir(), err)
	}
	if err := writeSlidesJSON(params.Paths.SlidesJSON(), valid); err != nil {
		return nil, domain.Wrap(domain.KindInternal, "render", "write slides.json", params.Paths.SlidesJSON(), err)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, sl := range valid {
		slide := sl
		id := *slide.ID
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := s.workerPool.Submit(func() {
			defer wg.Done()
			path := params.Paths.SlideHTML(id)
			err := s.renderer.Render(ctx, slide, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				_ = os.Remove(path)
				if ctx.Err() != nil {
					return
				}
				s.logger.ErrorWithFields(err, "Failed to render slide", map[string]interface{}{
					"request_id": params.RequestID.String(),
					"slide_id":   id,
				})
				result.Skipped = append(result.Skipped, domain.SkippedSlide{
					SlideID: id,
					Kind:    domain.KindRenderFailure,
					Reason:  err.Error(),
				})
				return
			}
			result.Rendered = append(result.Rendered, domain.SlideArtifact{SlideID: id, HTMLFile: path})
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, domain.Wrap(domain.KindInternal, "render", "submit", "", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(result.Rendered, func(i, j int) bool {
		return result.Rendered[i].SlideID < result.Rendered[j].SlideID
	})
	s.logger.InfoWithFields("Slides rendered", map[string]interface{}{
		"request_id": params.RequestID.String(),
		"rendered":   len(result.Rendered),
		"skipped":    len(result.Skipped),
	})
	return result, nil
}

func writeSlidesJSON(path string, slides []domain.Slide) error {
	data, err := json.MarshalIndent(slides, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
