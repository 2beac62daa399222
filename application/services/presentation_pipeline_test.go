package services

import (
	"context"
	"errors"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
	"os"
	"testing"
	"time"
)

func TestPresentationPipeline_FrenchTwoSlides(t *testing.T) {
	h := newHarness(t)
	requestID := uuid.New()
	paths := h.layout.Job(requestID)

	result, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(2, 1),
		Speech:    lessonSpeech(1, 2),
		Language:  domain.LanguageFrench,
	})
	if err != nil {
		t.Fatal("Failed to generate:", err)
	}

	for file, voice := range h.audio.voices {
		if voice != "fr-FR-DeniseNeural" {
			t.Fatalf("%s synthesized with %s", file, voice)
		}
	}
	if len(h.audio.voices) != 2 {
		t.Fatalf("expected 2 narrations, got %v", h.audio.voices)
	}
	if result.ClipCount != 2 || len(result.Skipped) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Video != paths.FinalVideo() {
		t.Fatalf("unexpected video path %s", result.Video)
	}
	video, err := os.ReadFile(paths.FinalVideo())
	if err != nil {
		t.Fatal("final video missing:", err)
	}
	if string(video) != "slide1.png|slide2.png" {
		t.Fatalf("clips concatenated out of order: %s", video)
	}
	if len(result.Slides) != 2 || result.Slides[0].SlideID != 1 || result.AudioFiles[1].SlideID != 2 {
		t.Fatalf("unexpected artifacts %+v %+v", result.Slides, result.AudioFiles)
	}
	if leftovers := transientFiles(t, paths); len(leftovers) != 0 {
		t.Fatalf("transient artifacts left behind: %v", leftovers)
	}
	if _, err := os.Stat(paths.SlidesJSON()); err != nil {
		t.Fatal("slides.json missing:", err)
	}

	record, err := h.jobStore.Get(context.Background(), requestID)
	if err != nil {
		t.Fatal("job record missing:", err)
	}
	if record.State != domain.StateDone || record.ClipCount != 2 {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestPresentationPipeline_IdempotentWhenVideoExists(t *testing.T) {
	h := newHarness(t)
	requestID := uuid.New()
	params := inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech:    lessonSpeech(1, 2),
		Language:  domain.LanguageEnglish,
	}

	first, err := h.pipeline.Generate(context.Background(), params)
	if err != nil {
		t.Fatal("Failed to generate:", err)
	}
	captures, audio, concats := h.capturer.calls.Load(), h.audio.calls.Load(), h.concatenator.calls.Load()

	second, err := h.pipeline.Generate(context.Background(), params)
	if err != nil {
		t.Fatal("Failed to reuse:", err)
	}
	if second.Video != first.Video {
		t.Fatalf("video path changed: %s vs %s", first.Video, second.Video)
	}
	if !second.Reused {
		t.Fatal("second run must report reuse")
	}
	if h.capturer.calls.Load() != captures || h.audio.calls.Load() != audio || h.concatenator.calls.Load() != concats {
		t.Fatal("reuse must not perform any rendering work")
	}
	if len(second.Slides) != 2 || len(second.AudioFiles) != 2 {
		t.Fatalf("reused artifacts not listed: %+v", second)
	}
}

func TestPresentationPipeline_PreexistingVideoShortCircuits(t *testing.T) {
	h := newHarness(t)
	requestID := uuid.New()
	paths := h.layout.Job(requestID)
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.FinalVideo(), []byte("done"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1),
		Speech:    lessonSpeech(1),
	})
	if err != nil {
		t.Fatal("Failed to generate:", err)
	}
	if result.Video != paths.FinalVideo() || h.audio.calls.Load() != 0 || h.capturer.calls.Load() != 0 {
		t.Fatalf("expected short circuit, got %+v", result)
	}
	if _, err := os.Stat(paths.SlideHTML(1)); !os.IsNotExist(err) {
		t.Fatal("reuse must not render slides")
	}
}

func TestPresentationPipeline_MissingHTMLSkipsSlide(t *testing.T) {
	h := newHarness(t)
	h.renderer.failIDs[2] = true
	requestID := uuid.New()
	paths := h.layout.Job(requestID)

	result, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech:    lessonSpeech(1, 2),
		Language:  domain.LanguageFrench,
	})
	if err != nil {
		t.Fatal("Failed to generate:", err)
	}
	if result.ClipCount != 1 {
		t.Fatalf("expected 1 clip, got %d", result.ClipCount)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].SlideID != 2 {
		t.Fatalf("expected slide 2 skipped once, got %+v", result.Skipped)
	}
	if _, err := os.Stat(paths.FinalVideo()); err != nil {
		t.Fatal("final video missing:", err)
	}
	if leftovers := transientFiles(t, paths); len(leftovers) != 0 {
		t.Fatalf("transient artifacts left behind: %v", leftovers)
	}
}

func TestPresentationPipeline_SentinelScriptProducesNoAudio(t *testing.T) {
	h := newHarness(t)
	requestID := uuid.New()
	paths := h.layout.Job(requestID)
	speech := lessonSpeech(1)
	speech = append(speech, domain.NarrationEntry{
		SlideID:         intPtr(2),
		Script:          "Explication indisponible",
		CodeExplanation: "Explication indisponible",
	})

	result, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech:    speech,
		Language:  domain.LanguageFrench,
	})
	if err != nil {
		t.Fatal("Failed to generate:", err)
	}
	if _, err := os.Stat(paths.Audio(2)); !os.IsNotExist(err) {
		t.Fatal("sentinel narration must not produce audio")
	}
	if result.ClipCount != 1 || len(result.AudioFiles) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Skipped[0].Kind != domain.KindValidation {
		t.Fatalf("expected validation skip, got %+v", result.Skipped)
	}
}

func TestPresentationPipeline_NoRenderableContent(t *testing.T) {
	h := newHarness(t)
	requestID := uuid.New()
	paths := h.layout.Job(requestID)

	_, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech: []domain.NarrationEntry{
			{SlideID: intPtr(1), Script: "Explanation unavailable"},
			{SlideID: intPtr(2), Script: "  "},
		},
	})
	var jobErr *domain.JobError
	if !errors.As(err, &jobErr) || jobErr.Kind != domain.KindNoRenderableContent {
		t.Fatalf("expected NoRenderableContent, got %v", err)
	}
	if jobErr.RequestID != requestID {
		t.Fatalf("request id not carried: %s", jobErr.RequestID)
	}
	if !errors.Is(err, domain.ErrNoRenderableContent) {
		t.Fatal("expected errors.Is to match the kind marker")
	}
	if _, err := os.Stat(paths.FinalVideo()); !os.IsNotExist(err) {
		t.Fatal("no final video may exist")
	}
	if _, err := os.Stat(paths.SlideHTML(1)); err != nil {
		t.Fatal("durable html must be kept for diagnostics:", err)
	}
	record, _ := h.jobStore.Get(context.Background(), requestID)
	if record == nil || record.State != domain.StateFailed || record.ErrorKind != domain.KindNoRenderableContent {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestPresentationPipeline_ConcatFailure(t *testing.T) {
	h := newHarness(t)
	h.concatenator.fail = true
	requestID := uuid.New()
	paths := h.layout.Job(requestID)

	_, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech:    lessonSpeech(1, 2),
	})
	if domain.KindOf(err) != domain.KindEncodeFailure {
		t.Fatalf("expected EncodeFailure, got %v", err)
	}
	if _, err := os.Stat(paths.FinalVideo()); !os.IsNotExist(err) {
		t.Fatal("no final video may exist after a failed concat")
	}
	if leftovers := transientFiles(t, paths); len(leftovers) != 0 {
		t.Fatalf("transient artifacts left behind: %v", leftovers)
	}
}

func TestPresentationPipeline_MuxFailureSkipsSlide(t *testing.T) {
	h := newHarness(t)
	h.muxer.failIDs["slide1.mp4"] = true
	requestID := uuid.New()

	result, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech:    lessonSpeech(1, 2),
	})
	if err != nil {
		t.Fatal("Failed to generate:", err)
	}
	if result.ClipCount != 1 || result.Skipped[0].Kind != domain.KindEncodeFailure {
		t.Fatalf("unexpected result %+v", result)
	}
	if leftovers := transientFiles(t, h.layout.Job(requestID)); len(leftovers) != 0 {
		t.Fatalf("transient artifacts left behind: %v", leftovers)
	}
}

func TestPresentationPipeline_CaptureTimeoutIsReportedAsSkip(t *testing.T) {
	h := newHarness(t)
	h.capturer.timeoutIDs["slide2.html"] = true
	requestID := uuid.New()

	result, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech:    lessonSpeech(1, 2),
	})
	if err != nil {
		t.Fatal("Failed to generate:", err)
	}
	if result.ClipCount != 1 {
		t.Fatalf("expected 1 clip, got %d", result.ClipCount)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].SlideID != 2 || result.Skipped[0].Kind != domain.KindRenderFailure {
		t.Fatalf("expected slide 2 skipped as render failure, got %+v", result.Skipped)
	}
	if leftovers := transientFiles(t, h.layout.Job(requestID)); len(leftovers) != 0 {
		t.Fatalf("transient artifacts left behind: %v", leftovers)
	}
}

func TestPresentationPipeline_SynthesisTimeoutIsReportedAsSkip(t *testing.T) {
	h := newHarness(t)
	h.audio.timeoutFiles["audio1.mp3"] = true
	requestID := uuid.New()

	result, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech:    lessonSpeech(1, 2),
	})
	if err != nil {
		t.Fatal("Failed to generate:", err)
	}
	if result.ClipCount != 1 || len(result.AudioFiles) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].SlideID != 1 || result.Skipped[0].Kind != domain.KindUpstreamUnavailable {
		t.Fatalf("expected slide 1 skipped as upstream failure, got %+v", result.Skipped)
	}
}

func TestPresentationPipeline_RetryIgnoresStaleArtifacts(t *testing.T) {
	h := newHarness(t)
	h.concatenator.fail = true
	requestID := uuid.New()
	paths := h.layout.Job(requestID)

	_, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2, 3),
		Speech:    lessonSpeech(1, 2, 3),
		Language:  domain.LanguageFrench,
	})
	if domain.KindOf(err) != domain.KindEncodeFailure {
		t.Fatalf("expected EncodeFailure on first attempt, got %v", err)
	}
	if _, err := os.Stat(paths.Audio(2)); err != nil {
		t.Fatal("first attempt should have left audio for slide 2:", err)
	}

	h.concatenator.fail = false
	speech := lessonSpeech(1)
	speech = append(speech, domain.NarrationEntry{
		SlideID: intPtr(2),
		Script:  "Explication indisponible",
	})
	result, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech:    speech,
		Language:  domain.LanguageFrench,
	})
	if err != nil {
		t.Fatal("Failed to generate on retry:", err)
	}
	if result.ClipCount != 1 || len(result.AudioFiles) != 1 {
		t.Fatalf("stale artifacts reused: %+v", result)
	}
	if _, err := os.Stat(paths.Audio(2)); !os.IsNotExist(err) {
		t.Fatal("stale audio for slide 2 must be removed")
	}
	if _, err := os.Stat(paths.SlideHTML(3)); !os.IsNotExist(err) {
		t.Fatal("stale html for dropped slide 3 must be removed")
	}
	video, err := os.ReadFile(paths.FinalVideo())
	if err != nil {
		t.Fatal("final video missing:", err)
	}
	if string(video) != "slide1.png" {
		t.Fatalf("unexpected video content %q", video)
	}
}

func TestPresentationPipeline_GapsAndInvalidSlides(t *testing.T) {
	h := newHarness(t)
	requestID := uuid.New()
	slides := lessonSlides(1, 3)
	slides = append(slides, domain.Slide{Title: "no id"})

	result, err := h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    slides,
		Speech:    lessonSpeech(1, 3),
	})
	if err != nil {
		t.Fatal("Failed to generate:", err)
	}
	if result.ClipCount != 2 {
		t.Fatalf("expected 2 clips, got %d", result.ClipCount)
	}
	if len(result.MissingSlideIDs) != 1 || result.MissingSlideIDs[0] != 2 {
		t.Fatalf("expected gap at 2, got %v", result.MissingSlideIDs)
	}
	var sawValidation bool
	for _, s := range result.Skipped {
		if s.Kind == domain.KindValidation && s.SlideID == 0 {
			sawValidation = true
		}
	}
	if !sawValidation {
		t.Fatalf("slide without id must be reported, got %+v", result.Skipped)
	}
}

func TestPresentationPipeline_CancellationCleansUp(t *testing.T) {
	h := newHarness(t)
	h.capturer.block = true
	requestID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for h.capturer.calls.Load() == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()
	}()

	_, err := h.pipeline.Generate(ctx, inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1, 2),
		Speech:    lessonSpeech(1, 2),
	})
	if domain.KindOf(err) != domain.KindCancelled {
		t.Fatalf("expected Cancelled, got %v", err)
	}
	if leftovers := transientFiles(t, h.layout.Job(requestID)); len(leftovers) != 0 {
		t.Fatalf("transient artifacts left behind: %v", leftovers)
	}
	record, _ := h.jobStore.Get(context.Background(), requestID)
	if record == nil || record.State != domain.StateFailed {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestPresentationPipeline_JobInProgress(t *testing.T) {
	h := newHarness(t)
	requestID := uuid.New()
	release, err := h.jobLock.Acquire(context.Background(), requestID)
	if err != nil {
		t.Fatal("Failed to lock:", err)
	}
	defer release()

	_, err = h.pipeline.Generate(context.Background(), inbound.GeneratePresentationParams{
		RequestID: requestID,
		Slides:    lessonSlides(1),
		Speech:    lessonSpeech(1),
	})
	if !errors.Is(err, domain.ErrJobInProgress) {
		t.Fatalf("expected JobInProgress, got %v", err)
	}
	if h.capturer.calls.Load() != 0 {
		t.Fatal("locked job must not run")
	}
}

func TestWithRetries(t *testing.T) {
	attempts := 0
	err := withRetries(context.Background(), 1, func() error {
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil || attempts != 2 {
		t.Fatalf("expected success on second attempt, got %v after %d", err, attempts)
	}

	attempts = 0
	_ = withRetries(context.Background(), 0, func() error {
		attempts++
		return errors.New("fail")
	})
	if attempts != 1 {
		t.Fatalf("zero retries must run once, ran %d", attempts)
	}
}
