package services

import (
	"context"
	"errors"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
	"os"
	"testing"
)

type fakeGateway struct {
	err      error
	requests []outbound.StoreVideoRequest
}

func (g *fakeGateway) StoreVideo(_ context.Context, req outbound.StoreVideoRequest) error {
	g.requests = append(g.requests, req)
	return g.err
}

type fakeArchive struct {
	calls int
}

func (a *fakeArchive) Archive(_ context.Context, req outbound.ArchiveVideoRequest) (*outbound.ArchiveVideoResponse, error) {
	a.calls++
	return &outbound.ArchiveVideoResponse{VideoKey: "presentations/" + req.RequestID.String() + ".mp4", StoreRegion: "eu-west-1"}, nil
}

type fakeModel struct {
	metadata domain.CourseMetadata
	content  *domain.LessonContent
}

func (m *fakeModel) GenerateContent(_ context.Context, _ uuid.UUID, metadata domain.CourseMetadata) (*domain.LessonContent, error) {
	m.metadata = metadata
	return m.content, nil
}

func newDelivery(h *harness, gateway *fakeGateway, archive outbound.VideoArchivePort, model *fakeModel) inbound.PresentationDeliveryPort {
	return NewPresentationDelivery(newTestLogger(), h.layout, model, h.pipeline, gateway, archive, h.jobStore)
}

func TestPresentationDelivery_ProcessAndDeliver(t *testing.T) {
	h := newHarness(t)
	gateway := &fakeGateway{}
	archive := &fakeArchive{}
	delivery := newDelivery(h, gateway, archive, &fakeModel{})
	requestID := uuid.New()

	res, err := delivery.ProcessAndDeliver(context.Background(), inbound.DeliverPresentationParams{
		RequestID: requestID,
		Lesson: domain.LessonContent{
			Slides: lessonSlides(1),
			Speech: lessonSpeech(1),
			Topic:  "Go channels",
		},
		Metadata: domain.CourseMetadata{Language: domain.LanguageItalian},
	})
	if err != nil {
		t.Fatal("Failed to deliver:", err)
	}
	if len(gateway.requests) != 1 {
		t.Fatalf("expected one upload, got %d", len(gateway.requests))
	}
	meta := gateway.requests[0].Metadata
	if meta.Topic != "Go channels" || meta.Level != domain.DefaultLevel || meta.Language != domain.LanguageItalian || len(meta.Axes) != 2 {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if archive.calls != 1 || res.ArchiveKey == "" {
		t.Fatalf("archive not used: %+v", res)
	}
	if h.audio.voices["audio1.mp3"] != "it-IT-ElsaNeural" {
		t.Fatalf("unexpected voice %v", h.audio.voices)
	}

	record, err := h.jobStore.Get(context.Background(), requestID)
	if err != nil || !record.Delivered || record.ArchiveKey == "" {
		t.Fatalf("delivery not recorded: %+v %v", record, err)
	}
}

func TestPresentationDelivery_GatewayFailureKeepsVideo(t *testing.T) {
	h := newHarness(t)
	gateway := &fakeGateway{err: errors.New("connection refused")}
	delivery := newDelivery(h, gateway, nil, &fakeModel{})
	requestID := uuid.New()

	_, err := delivery.ProcessAndDeliver(context.Background(), inbound.DeliverPresentationParams{
		RequestID: requestID,
		Lesson:    domain.LessonContent{Slides: lessonSlides(1), Speech: lessonSpeech(1)},
	})
	var jobErr *domain.JobError
	if !errors.As(err, &jobErr) || jobErr.Kind != domain.KindUpstreamUnavailable {
		t.Fatalf("expected UpstreamUnavailable, got %v", err)
	}
	if _, err := os.Stat(h.layout.Job(requestID).FinalVideo()); err != nil {
		t.Fatal("video must stay on disk for retry:", err)
	}

	gateway.err = nil
	if err := delivery.Transfer(context.Background(), requestID, domain.CourseMetadata{}); err != nil {
		t.Fatal("retry transfer failed:", err)
	}
	if gateway.requests[1].Metadata.Topic != domain.DefaultTopic {
		t.Fatalf("defaults not applied: %+v", gateway.requests[1].Metadata)
	}
}

func TestPresentationDelivery_TransferWithoutVideo(t *testing.T) {
	h := newHarness(t)
	delivery := newDelivery(h, &fakeGateway{}, nil, &fakeModel{})
	err := delivery.Transfer(context.Background(), uuid.New(), domain.CourseMetadata{})
	if domain.KindOf(err) != domain.KindArtifactNotFound {
		t.Fatalf("expected ArtifactNotFound, got %v", err)
	}
}

func TestPresentationDelivery_RequestContentAppliesDefaults(t *testing.T) {
	h := newHarness(t)
	model := &fakeModel{content: &domain.LessonContent{Slides: lessonSlides(1)}}
	delivery := newDelivery(h, &fakeGateway{}, nil, model)

	content, err := delivery.RequestContent(context.Background(), uuid.New(), domain.CourseMetadata{Topic: "Rust"})
	if err != nil {
		t.Fatal("Failed to request content:", err)
	}
	if len(content.Slides) != 1 {
		t.Fatalf("unexpected content %+v", content)
	}
	if model.metadata.Language != domain.LanguageEnglish || model.metadata.Topic != "Rust" {
		t.Fatalf("unexpected metadata %+v", model.metadata)
	}
}
