package services

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"os"
	"sort"
	"sync"
)

type narrationStage struct {
	logger      outbound.LoggerPort
	synthesizer outbound.SpeechSynthesizerPort
	workerPool  outbound.TaskDispatcher
	retries     int
}

func NewNarrationStage(logger outbound.LoggerPort, synthesizer outbound.SpeechSynthesizerPort,
	workerPool outbound.TaskDispatcher, retries int) inbound.NarrationStagePort {
	return &narrationStage{
		logger:      logger,
		synthesizer: synthesizer,
		workerPool:  workerPool,
		retries:     retries,
	}
}

func (s *narrationStage) Synthesize(ctx context.Context, params inbound.SynthesizeNarrationParams) (*inbound.SynthesizeNarrationResult, error) {
	narrations, rejected := domain.ValidateNarration(params.Speech)
	result := &inbound.SynthesizeNarrationResult{
		AudioFiles: make([]domain.AudioArtifact, 0, len(narrations)),
	}
	for _, r := range rejected {
		s.logger.WarnWithFields("Skipping narration", map[string]interface{}{
			"request_id": params.RequestID.String(),
			"reason":     r.Error(),
		})
		result.Skipped = append(result.Skipped, domain.SkippedSlide{
			SlideID: r.SlideID,
			Kind:    domain.KindValidation,
			Reason:  r.Reason,
		})
	}

	if err := os.MkdirAll(params.Paths.AudiosDir(), 0o755); err != nil {
		return nil, domain.Wrap(domain.KindInternal, "synthesis", "create audios dir", params.Paths.AudiosDir(), err)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, n := range narrations {
		narration := n
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := s.workerPool.Submit(func() {
			defer wg.Done()
			var path string
			err := withRetries(ctx, s.retries, func() error {
				var err error
				path, err = s.synthesizer.Synthesize(ctx, outbound.SynthesizeSpeechRequest{
					SlideID:   narration.SlideID,
					Text:      narration.Text,
					Language:  params.Language,
					OutputDir: params.Paths.AudiosDir(),
				})
				return err
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.ErrorWithFields(err, "Failed to synthesize narration", map[string]interface{}{
					"request_id": params.RequestID.String(),
					"slide_id":   narration.SlideID,
				})
				kind := domain.KindOf(err)
				if kind == domain.KindInternal || kind == domain.KindCancelled {
					kind = domain.KindUpstreamUnavailable
				}
				result.Skipped = append(result.Skipped, domain.SkippedSlide{
					SlideID: narration.SlideID,
					Kind:    kind,
					Reason:  err.Error(),
				})
				return
			}
			result.AudioFiles = append(result.AudioFiles, domain.AudioArtifact{SlideID: narration.SlideID, AudioFile: path})
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, domain.Wrap(domain.KindInternal, "synthesis", "submit", "", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(result.AudioFiles, func(i, j int) bool {
		return result.AudioFiles[i].SlideID < result.AudioFiles[j].SlideID
	})
	s.logger.InfoWithFields("Narration synthesized", map[string]interface{}{
		"request_id": params.RequestID.String(),
		"language":   string(params.Language),
		"audio":      len(result.AudioFiles),
		"skipped":    len(result.Skipped),
	})
	return result, nil
}
