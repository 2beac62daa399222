package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/config"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/MonsefRH/E-learn/infrastructure/adapters"
	"github.com/panjf2000/ants/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestLogger() outbound.LoggerPort {
	return adapters.NewZerologWrapper("disabled", "json")
}

func newTestPool(t *testing.T, size int) *ants.Pool {
	t.Helper()
	pool, err := ants.NewPool(size)
	if err != nil {
		t.Fatal("Failed to create worker pool:", err)
	}
	t.Cleanup(pool.Release)
	return pool
}

type failingRenderer struct {
	inner   outbound.SlideRendererPort
	failIDs map[int]bool
}

func (r *failingRenderer) Render(ctx context.Context, slide domain.Slide, outputPath string) error {
	if slide.ID != nil && r.failIDs[*slide.ID] {
		return domain.Wrap(domain.KindRenderFailure, "render", "", "simulated", nil)
	}
	return r.inner.Render(ctx, slide, outputPath)
}

type recordingAudio struct {
	mu           sync.Mutex
	voices       map[string]string
	calls        atomic.Int32
	timeoutFiles map[string]bool
}

func (a *recordingAudio) Generate(_ context.Context, req outbound.GenerateAudioRequest) error {
	a.calls.Add(1)
	if a.timeoutFiles[filepath.Base(req.OutputPath)] {
		return fmt.Errorf("edge-tts: %w", context.DeadlineExceeded)
	}
	a.mu.Lock()
	a.voices[filepath.Base(req.OutputPath)] = req.VoiceID
	a.mu.Unlock()
	return os.WriteFile(req.OutputPath, []byte(req.Text), 0o644)
}

type fakeCapturer struct {
	calls      atomic.Int32
	failIDs    map[string]bool
	timeoutIDs map[string]bool
	block      bool
}

func (c *fakeCapturer) Capture(ctx context.Context, htmlPath string, imagePath string) error {
	c.calls.Add(1)
	if c.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if c.failIDs[filepath.Base(htmlPath)] {
		return domain.Wrap(domain.KindRenderFailure, "capture", "", "simulated", nil)
	}
	if c.timeoutIDs[filepath.Base(htmlPath)] {
		return domain.Wrap(domain.KindRenderFailure, "capture", "screenshot", htmlPath, context.DeadlineExceeded)
	}
	return os.WriteFile(imagePath, []byte(filepath.Base(imagePath)), 0o644)
}

type fakeMuxer struct {
	failIDs map[string]bool
}

func (m *fakeMuxer) Mux(_ context.Context, req outbound.MuxClipRequest) error {
	image, err := os.ReadFile(req.ImagePath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return err
	}
	if m.failIDs[filepath.Base(req.OutputPath)] {
		_ = os.WriteFile(req.OutputPath, []byte("broken"), 0o644)
		return domain.Wrap(domain.KindEncodeFailure, "mux", "", "simulated", nil)
	}
	return os.WriteFile(req.OutputPath, image, 0o644)
}

type fakeConcatenator struct {
	fail  bool
	calls atomic.Int32
}

// Concatenate leaves its manifest and partial output behind on failure.
func (c *fakeConcatenator) Concatenate(_ context.Context, req outbound.ConcatenateClipsRequest) error {
	c.calls.Add(1)
	if err := os.WriteFile(req.ManifestPath, []byte(strings.Join(req.Clips, "\n")), 0o644); err != nil {
		return err
	}
	parts := make([]string, 0, len(req.Clips))
	for _, clip := range req.Clips {
		data, err := os.ReadFile(clip)
		if err != nil {
			return err
		}
		parts = append(parts, string(data))
	}
	if err := os.WriteFile(req.PartialPath, []byte(strings.Join(parts, "|")), 0o644); err != nil {
		return err
	}
	if c.fail {
		return domain.Wrap(domain.KindEncodeFailure, "concat", "ffmpeg", "", errors.New("exit status 1"))
	}
	_ = os.Remove(req.ManifestPath)
	return os.Rename(req.PartialPath, req.OutputPath)
}

type harness struct {
	layout       domain.ArtifactLayout
	jobStore     outbound.JobStorePort
	jobLock      outbound.JobLockPort
	renderer     *failingRenderer
	audio        *recordingAudio
	capturer     *fakeCapturer
	muxer        *fakeMuxer
	concatenator *fakeConcatenator
	pipeline     inbound.PresentationPipelinePort
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := newTestLogger()
	renderer, err := adapters.NewHTMLSlideRenderer(logger, adapters.DefaultSlideLabels())
	if err != nil {
		t.Fatal("Failed to create renderer:", err)
	}
	h := &harness{
		layout:       domain.NewArtifactLayout(filepath.Join(t.TempDir(), "presentations")),
		jobStore:     adapters.NewMemoryJobStore(),
		renderer:     &failingRenderer{inner: renderer, failIDs: map[int]bool{}},
		audio:        &recordingAudio{voices: map[string]string{}, timeoutFiles: map[string]bool{}},
		capturer:     &fakeCapturer{failIDs: map[string]bool{}, timeoutIDs: map[string]bool{}},
		muxer:        &fakeMuxer{failIDs: map[string]bool{}},
		concatenator: &fakeConcatenator{},
	}
	h.jobLock = adapters.NewFileJobLock(logger, h.layout)

	ioPool := newTestPool(t, 8)
	mediaPool := newTestPool(t, 2)
	voices := adapters.NewVoiceTable("en-US-AriaNeural", config.DefaultEdgeVoices())
	synthesizer := adapters.NewSpeechSynthesizer(logger, h.audio, voices)

	h.pipeline = NewPresentationPipeline(
		logger,
		h.layout,
		h.jobLock,
		h.jobStore,
		NewSlideRenderStage(logger, h.renderer, ioPool),
		NewNarrationStage(logger, synthesizer, ioPool, 0),
		NewClipBuildStage(logger, h.capturer, h.muxer, mediaPool, 0),
		h.concatenator,
		mediaPool,
	)
	return h
}

func intPtr(v int) *int {
	return &v
}

func lessonSlides(ids ...int) []domain.Slide {
	slides := make([]domain.Slide, 0, len(ids))
	for _, id := range ids {
		slides = append(slides, domain.Slide{
			ID:          intPtr(id),
			Title:       fmt.Sprintf("Title %d", id),
			Summary:     "<p>summary</p>",
			ExampleCode: "<pre><code>print(1)</code></pre>",
		})
	}
	return slides
}

func lessonSpeech(ids ...int) []domain.NarrationEntry {
	speech := make([]domain.NarrationEntry, 0, len(ids))
	for _, id := range ids {
		speech = append(speech, domain.NarrationEntry{
			SlideID:         intPtr(id),
			Script:          fmt.Sprintf("Script for slide %d", id),
			CodeExplanation: "Explication indisponible",
		})
	}
	return speech
}

// transientFiles lists intermediate artifacts left in the job directory.
func transientFiles(t *testing.T, paths domain.JobPaths) []string {
	t.Helper()
	entries, err := os.ReadDir(paths.Dir)
	if err != nil {
		t.Fatal("Failed to read job dir:", err)
	}
	var out []string
	for _, entry := range entries {
		if paths.IsTransient(entry.Name()) {
			out = append(out, entry.Name())
		}
	}
	return out
}
