package services

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type presentationPipeline struct {
	logger         outbound.LoggerPort
	layout         domain.ArtifactLayout
	jobLock        outbound.JobLockPort
	jobStore       outbound.JobStorePort
	renderStage    inbound.SlideRenderStagePort
	narrationStage inbound.NarrationStagePort
	clipStage      inbound.ClipBuildStagePort
	concatenator   outbound.ClipConcatenatorPort
	mediaPool      outbound.TaskDispatcher
}

func NewPresentationPipeline(
	logger outbound.LoggerPort,
	layout domain.ArtifactLayout,
	jobLock outbound.JobLockPort,
	jobStore outbound.JobStorePort,
	renderStage inbound.SlideRenderStagePort,
	narrationStage inbound.NarrationStagePort,
	clipStage inbound.ClipBuildStagePort,
	concatenator outbound.ClipConcatenatorPort,
	mediaPool outbound.TaskDispatcher) inbound.PresentationPipelinePort {
	return &presentationPipeline{
		logger:         logger,
		layout:         layout,
		jobLock:        jobLock,
		jobStore:       jobStore,
		renderStage:    renderStage,
		narrationStage: narrationStage,
		clipStage:      clipStage,
		concatenator:   concatenator,
		mediaPool:      mediaPool,
	}
}

type pipelineRun struct {
	logger    outbound.LoggerPort
	requestID uuid.UUID
	paths     domain.JobPaths
	machine   *domain.JobStateMachine
	result    *domain.JobResult
}

func (p *presentationPipeline) Generate(ctx context.Context, params inbound.GeneratePresentationParams) (*domain.JobResult, error) {
	run := &pipelineRun{
		logger:    p.logger.With(map[string]interface{}{"request_id": params.RequestID.String()}),
		requestID: params.RequestID,
		paths:     p.layout.Job(params.RequestID),
		machine:   domain.NewJobStateMachine(),
		result: &domain.JobResult{
			RequestID: params.RequestID,
		},
	}

	for _, dir := range []string{run.paths.Dir, run.paths.SlidesDir(), run.paths.AudiosDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, domain.NewJobError(params.RequestID, domain.Wrap(domain.KindInternal, "directory", "create", dir, err))
		}
	}

	release, err := p.jobLock.Acquire(ctx, params.RequestID)
	if err != nil {
		run.logger.WarnWithFields("Job lock unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domain.NewJobError(params.RequestID, err)
	}
	defer func() {
		_ = release()
	}()

	if err := p.advance(ctx, run, domain.StateDirectoryReady); err != nil {
		return nil, p.fail(ctx, run, err)
	}

	if fileExists(run.paths.FinalVideo()) {
		run.logger.InfoWithFields("Final video already exists, reusing", map[string]interface{}{
			"video": run.paths.FinalVideo(),
		})
		run.result = existingResult(run.paths, params.RequestID)
		if err := p.advance(ctx, run, domain.StateDone); err != nil {
			return nil, p.fail(ctx, run, err)
		}
		return run.result, nil
	}

	if err := p.execute(ctx, run, params); err != nil {
		return nil, p.fail(ctx, run, err)
	}
	p.sweepTransient(run)
	return run.result, nil
}

func (p *presentationPipeline) execute(ctx context.Context, run *pipelineRun, params inbound.GeneratePresentationParams) error {
	skips := newSkipSet()

	rendered, err := p.renderStage.Render(ctx, inbound.RenderSlidesParams{
		RequestID: run.requestID,
		Paths:     run.paths,
		Slides:    params.Slides,
	})
	if err != nil {
		return err
	}
	skips.add(rendered.Skipped...)
	run.result.Slides = rendered.Rendered
	if err := p.advance(ctx, run, domain.StateSlidesRendered); err != nil {
		return err
	}

	narrated, err := p.narrationStage.Synthesize(ctx, inbound.SynthesizeNarrationParams{
		RequestID: run.requestID,
		Paths:     run.paths,
		Speech:    params.Speech,
		Language:  params.Language,
	})
	if err != nil {
		return err
	}
	skips.add(narrated.Skipped...)
	run.result.AudioFiles = narrated.AudioFiles
	if err := p.advance(ctx, run, domain.StateAudioSynthesized); err != nil {
		return err
	}

	slideIDs := validSlideIDs(params.Slides)
	run.result.MissingSlideIDs = domain.MissingSlideIDs(slideIDs)
	if len(run.result.MissingSlideIDs) > 0 {
		run.logger.WarnWithFields("Slide numbering has gaps", map[string]interface{}{
			"missing": run.result.MissingSlideIDs,
		})
	}

	renderedIDs := make(map[int]struct{}, len(rendered.Rendered))
	for _, s := range rendered.Rendered {
		renderedIDs[s.SlideID] = struct{}{}
	}
	narratedIDs := make(map[int]struct{}, len(narrated.AudioFiles))
	for _, a := range narrated.AudioFiles {
		narratedIDs[a.SlideID] = struct{}{}
	}
	p.pruneStale(run, renderedIDs, narratedIDs)

	built, err := p.clipStage.Build(ctx, inbound.BuildClipsParams{
		RequestID:   run.requestID,
		Paths:       run.paths,
		MaxSlideID:  maxID(slideIDs),
		RenderedIDs: renderedIDs,
		NarratedIDs: narratedIDs,
	})
	if err != nil {
		return err
	}
	skips.add(built.Skipped...)
	run.result.Skipped = skips.list()
	run.result.ClipCount = len(built.Clips)
	if err := p.advance(ctx, run, domain.StateClipsBuilt); err != nil {
		return err
	}

	if len(built.Clips) == 0 {
		return domain.Wrap(domain.KindNoRenderableContent, "concat", "", "no slide has both html and audio", nil)
	}

	clipPaths := make([]string, 0, len(built.Clips))
	for _, clip := range built.Clips {
		clipPaths = append(clipPaths, clip.Path)
	}
	err = submitAndWait(p.mediaPool, func() error {
		return p.concatenator.Concatenate(ctx, outbound.ConcatenateClipsRequest{
			Clips:        clipPaths,
			ManifestPath: run.paths.Manifest(),
			PartialPath:  run.paths.PartialVideo(),
			OutputPath:   run.paths.FinalVideo(),
		})
	})
	if err != nil {
		if kind := domain.KindOf(err); kind == domain.KindInternal || (kind == domain.KindCancelled && ctx.Err() == nil) {
			err = domain.Wrap(domain.KindEncodeFailure, "concat", "", "", err)
		}
		return err
	}
	for _, clip := range clipPaths {
		p.removeFile(clip)
	}
	run.result.Video = run.paths.FinalVideo()
	if err := p.advance(ctx, run, domain.StateConcatenated); err != nil {
		return err
	}

	run.logger.InfoWithFields("Presentation video produced", map[string]interface{}{
		"video":   run.result.Video,
		"clips":   run.result.ClipCount,
		"skipped": len(run.result.Skipped),
	})
	return p.advance(ctx, run, domain.StateDone)
}

func (p *presentationPipeline) advance(ctx context.Context, run *pipelineRun, next domain.JobState) error {
	if err := run.machine.Advance(next); err != nil {
		return err
	}
	run.logger.DebugWithFields("Job state changed", map[string]interface{}{
		"state": string(next),
	})
	p.saveRecord(ctx, run, nil)
	return nil
}

func (p *presentationPipeline) fail(ctx context.Context, run *pipelineRun, err error) error {
	jobErr := domain.NewJobError(run.requestID, err)
	p.sweepTransient(run)
	if advErr := run.machine.Advance(domain.StateFailed); advErr != nil {
		run.logger.Error(advErr, "Failed to mark job as failed")
	}
	p.saveRecord(ctx, run, jobErr)
	run.logger.ErrorWithFields(jobErr, "Presentation job failed", map[string]interface{}{
		"kind": string(jobErr.Kind),
	})
	return jobErr
}

// saveRecord keeps delivery fields already stored for the job.
func (p *presentationPipeline) saveRecord(ctx context.Context, run *pipelineRun, jobErr *domain.JobError) {
	if p.jobStore == nil {
		return
	}
	storeCtx := context.WithoutCancel(ctx)
	record := domain.JobRecord{
		RequestID:    run.requestID,
		State:        run.machine.State(),
		Video:        run.result.Video,
		ClipCount:    run.result.ClipCount,
		SkippedCount: len(run.result.Skipped),
		UpdatedAt:    time.Now().UTC(),
	}
	if jobErr != nil {
		record.ErrorKind = jobErr.Kind
		record.ErrorMessage = jobErr.Message
	}
	if existing, err := p.jobStore.Get(storeCtx, run.requestID); err == nil && existing != nil {
		record.Delivered = existing.Delivered
		record.ArchiveKey = existing.ArchiveKey
	}
	if err := p.jobStore.Save(storeCtx, record); err != nil {
		run.logger.ErrorWithFields(err, "Failed to save job record", map[string]interface{}{
			"state": string(record.State),
		})
	}
}

// sweepTransient removes images, per-slide clips, the manifest and any partial video.
func (p *presentationPipeline) sweepTransient(run *pipelineRun) {
	entries, err := os.ReadDir(run.paths.Dir)
	if err != nil {
		if !os.IsNotExist(err) {
			run.logger.Error(err, "Failed to list job directory")
		}
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !run.paths.IsTransient(entry.Name()) {
			continue
		}
		p.removeFile(filepath.Join(run.paths.Dir, entry.Name()))
	}
}

// pruneStale deletes slide HTML and audio left by an earlier attempt that this attempt did not produce.
func (p *presentationPipeline) pruneStale(run *pipelineRun, renderedIDs map[int]struct{}, narratedIDs map[int]struct{}) {
	prune := func(dir string, parse func(string) (int, bool), keep map[int]struct{}) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			id, ok := parse(entry.Name())
			if !ok {
				continue
			}
			if _, produced := keep[id]; produced {
				continue
			}
			run.logger.DebugWithFields("Removing stale artifact", map[string]interface{}{
				"slide_id": id,
				"file":     entry.Name(),
			})
			p.removeFile(filepath.Join(dir, entry.Name()))
		}
	}
	prune(run.paths.SlidesDir(), domain.SlideIDFromHTMLName, renderedIDs)
	prune(run.paths.AudiosDir(), domain.SlideIDFromAudioName, narratedIDs)
}

func (p *presentationPipeline) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		p.logger.ErrorWithFields(err, "Failed to remove artifact", map[string]interface{}{
			"path": path,
		})
	}
}

// existingResult rebuilds the job result from a completed job directory.
func existingResult(paths domain.JobPaths, requestID uuid.UUID) *domain.JobResult {
	result := &domain.JobResult{
		RequestID:  requestID,
		Slides:     make([]domain.SlideArtifact, 0),
		AudioFiles: make([]domain.AudioArtifact, 0),
		Video:      paths.FinalVideo(),
		Skipped:    make([]domain.SkippedSlide, 0),
		Reused:     true,
	}
	if entries, err := os.ReadDir(paths.SlidesDir()); err == nil {
		for _, entry := range entries {
			if id, ok := domain.SlideIDFromHTMLName(entry.Name()); ok {
				result.Slides = append(result.Slides, domain.SlideArtifact{SlideID: id, HTMLFile: paths.SlideHTML(id)})
			}
		}
	}
	if entries, err := os.ReadDir(paths.AudiosDir()); err == nil {
		for _, entry := range entries {
			if id, ok := domain.SlideIDFromAudioName(entry.Name()); ok {
				result.AudioFiles = append(result.AudioFiles, domain.AudioArtifact{SlideID: id, AudioFile: paths.Audio(id)})
			}
		}
	}
	sort.Slice(result.Slides, func(i, j int) bool { return result.Slides[i].SlideID < result.Slides[j].SlideID })
	sort.Slice(result.AudioFiles, func(i, j int) bool { return result.AudioFiles[i].SlideID < result.AudioFiles[j].SlideID })
	return result
}

type skipSet struct {
	seen  map[int]struct{}
	items []domain.SkippedSlide
}

func newSkipSet() *skipSet {
	return &skipSet{seen: make(map[int]struct{})}
}

// add records the first reason per slide id. Entries without a slide id are always kept.
func (s *skipSet) add(skipped ...domain.SkippedSlide) {
	for _, item := range skipped {
		if item.SlideID > 0 {
			if _, ok := s.seen[item.SlideID]; ok {
				continue
			}
			s.seen[item.SlideID] = struct{}{}
		}
		s.items = append(s.items, item)
	}
}

func (s *skipSet) list() []domain.SkippedSlide {
	out := make([]domain.SkippedSlide, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SlideID < out[j].SlideID })
	return out
}

func validSlideIDs(slides []domain.Slide) []int {
	valid, _ := domain.ValidateSlides(slides)
	ids := make([]int, 0, len(valid))
	for _, s := range valid {
		ids = append(ids, *s.ID)
	}
	return ids
}

func maxID(ids []int) int {
	m := 0
	for _, id := range ids {
		if id > m {
			m = id
		}
	}
	return m
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
