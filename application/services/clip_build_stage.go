package services

import (
	"context"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"os"
	"sort"
	"sync"
)

type clipBuildStage struct {
	logger         outbound.LoggerPort
	capturer       outbound.SlideCapturerPort
	muxer          outbound.ClipMuxerPort
	workerPool     outbound.TaskDispatcher
	captureRetries int
}

func NewClipBuildStage(logger outbound.LoggerPort, capturer outbound.SlideCapturerPort, muxer outbound.ClipMuxerPort,
	workerPool outbound.TaskDispatcher, captureRetries int) inbound.ClipBuildStagePort {
	return &clipBuildStage{
		logger:         logger,
		capturer:       capturer,
		muxer:          muxer,
		workerPool:     workerPool,
		captureRetries: captureRetries,
	}
}

func (g *clipBuildStage) Build(ctx context.Context, params inbound.BuildClipsParams) (*inbound.BuildClipsResult, error) {
	result := &inbound.BuildClipsResult{}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	skip := func(id int, kind domain.ErrorKind, reason string) {
		mu.Lock()
		defer mu.Unlock()
		result.Skipped = append(result.Skipped, domain.SkippedSlide{SlideID: id, Kind: kind, Reason: reason})
	}

	for id := 1; id <= params.MaxSlideID; id++ {
		if ctx.Err() != nil {
			break
		}
		slideID := id
		htmlPath := params.Paths.SlideHTML(slideID)
		audioPath := params.Paths.Audio(slideID)
		if missing := missingSource(params, slideID, htmlPath, audioPath); missing != "" {
			g.logger.WarnWithFields("Skipping clip, source artifact missing", map[string]interface{}{
				"request_id": params.RequestID.String(),
				"slide_id":   slideID,
				"missing":    missing,
			})
			skip(slideID, domain.KindArtifactNotFound, fmt.Sprintf("missing %s", missing))
			continue
		}

		wg.Add(1)
		err := g.workerPool.Submit(func() {
			defer wg.Done()
			clipPath, kind, err := g.buildClip(ctx, params.Paths, slideID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				g.logger.ErrorWithFields(err, "Failed to build clip", map[string]interface{}{
					"request_id": params.RequestID.String(),
					"slide_id":   slideID,
				})
				skip(slideID, kind, err.Error())
				return
			}
			mu.Lock()
			result.Clips = append(result.Clips, inbound.BuiltClip{SlideID: slideID, Path: clipPath})
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, domain.Wrap(domain.KindInternal, "clips", "submit", "", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(result.Clips, func(i, j int) bool {
		return result.Clips[i].SlideID < result.Clips[j].SlideID
	})
	sort.SliceStable(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].SlideID < result.Skipped[j].SlideID
	})
	g.logger.InfoWithFields("Clips built", map[string]interface{}{
		"request_id": params.RequestID.String(),
		"clips":      len(result.Clips),
		"skipped":    len(result.Skipped),
	})
	return result, nil
}

// buildClip captures then muxes one slide. The image never outlives this call.
func (g *clipBuildStage) buildClip(ctx context.Context, paths domain.JobPaths, slideID int) (string, domain.ErrorKind, error) {
	imagePath := paths.Image(slideID)
	clipPath := paths.Clip(slideID)
	defer func() {
		if err := os.Remove(imagePath); err != nil && !os.IsNotExist(err) {
			g.logger.Error(err, "Failed to remove slide image")
		}
	}()

	err := withRetries(ctx, g.captureRetries, func() error {
		return g.capturer.Capture(ctx, paths.SlideHTML(slideID), imagePath)
	})
	if err != nil {
		return "", domain.KindRenderFailure, err
	}

	err = g.muxer.Mux(ctx, outbound.MuxClipRequest{
		ImagePath:  imagePath,
		AudioPath:  paths.Audio(slideID),
		OutputPath: clipPath,
	})
	if err != nil {
		_ = os.Remove(clipPath)
		return "", domain.KindEncodeFailure, err
	}
	return clipPath, "", nil
}

func missingSource(params inbound.BuildClipsParams, slideID int, htmlPath string, audioPath string) string {
	if _, ok := params.RenderedIDs[slideID]; !ok {
		return htmlPath
	}
	if _, ok := params.NarratedIDs[slideID]; !ok {
		return audioPath
	}
	return firstMissing(htmlPath, audioPath)
}

func firstMissing(paths ...string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			return p
		}
	}
	return ""
}
