package services

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
	"time"
)

type presentationDelivery struct {
	logger       outbound.LoggerPort
	layout       domain.ArtifactLayout
	modelClient  outbound.ModelClientPort
	pipeline     inbound.PresentationPipelinePort
	gateway      outbound.UpstreamGatewayPort
	videoArchive outbound.VideoArchivePort
	jobStore     outbound.JobStorePort
}

// NewPresentationDelivery wires generation to the upstream store. videoArchive may be nil.
func NewPresentationDelivery(
	logger outbound.LoggerPort,
	layout domain.ArtifactLayout,
	modelClient outbound.ModelClientPort,
	pipeline inbound.PresentationPipelinePort,
	gateway outbound.UpstreamGatewayPort,
	videoArchive outbound.VideoArchivePort,
	jobStore outbound.JobStorePort) inbound.PresentationDeliveryPort {
	return &presentationDelivery{
		logger:       logger,
		layout:       layout,
		modelClient:  modelClient,
		pipeline:     pipeline,
		gateway:      gateway,
		videoArchive: videoArchive,
		jobStore:     jobStore,
	}
}

func (s *presentationDelivery) RequestContent(ctx context.Context, requestID uuid.UUID, metadata domain.CourseMetadata) (*domain.LessonContent, error) {
	s.logger.InfoWithFields("Requesting lesson content", map[string]interface{}{
		"request_id": requestID.String(),
		"topic":      metadata.Topic,
	})
	content, err := s.modelClient.GenerateContent(ctx, requestID, metadata.WithDefaults())
	if err != nil {
		return nil, domain.NewJobError(requestID, err)
	}
	return content, nil
}

func (s *presentationDelivery) ProcessAndDeliver(ctx context.Context, params inbound.DeliverPresentationParams) (*inbound.DeliveryResult, error) {
	metadata := lessonMetadata(params.Metadata, params.Lesson)

	job, err := s.pipeline.Generate(ctx, inbound.GeneratePresentationParams{
		RequestID: params.RequestID,
		Slides:    params.Lesson.Slides,
		Speech:    params.Lesson.Speech,
		Language:  metadata.Language,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store(ctx, params.RequestID, job.Video, metadata); err != nil {
		return nil, err
	}

	result := &inbound.DeliveryResult{Job: job}
	if s.videoArchive != nil {
		res, err := s.videoArchive.Archive(ctx, outbound.ArchiveVideoRequest{
			RequestID: params.RequestID,
			VideoPath: job.Video,
		})
		if err != nil {
			s.logger.ErrorWithFields(err, "Failed to archive video", map[string]interface{}{
				"request_id": params.RequestID.String(),
			})
		} else {
			result.ArchiveKey = res.VideoKey
		}
	}

	s.markDelivered(ctx, params.RequestID, job, result.ArchiveKey)
	return result, nil
}

func (s *presentationDelivery) Transfer(ctx context.Context, requestID uuid.UUID, metadata domain.CourseMetadata) error {
	video := s.layout.Job(requestID).FinalVideo()
	if !fileExists(video) {
		return domain.NewJobError(requestID, domain.Wrap(domain.KindArtifactNotFound, "transfer", "", video, nil))
	}
	return s.store(ctx, requestID, video, metadata.WithDefaults())
}

func (s *presentationDelivery) store(ctx context.Context, requestID uuid.UUID, video string, metadata domain.CourseMetadata) error {
	err := s.gateway.StoreVideo(ctx, outbound.StoreVideoRequest{
		RequestID: requestID,
		VideoPath: video,
		Metadata:  metadata,
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			err = domain.Wrap(domain.KindUpstreamUnavailable, "deliver", "store video", "", err)
		}
		s.logger.ErrorWithFields(err, "Failed to deliver video, kept on disk for retry", map[string]interface{}{
			"request_id": requestID.String(),
			"video":      video,
		})
		return domain.NewJobError(requestID, err)
	}
	s.logger.InfoWithFields("Video delivered", map[string]interface{}{
		"request_id": requestID.String(),
	})
	return nil
}

func (s *presentationDelivery) markDelivered(ctx context.Context, requestID uuid.UUID, job *domain.JobResult, archiveKey string) {
	if s.jobStore == nil {
		return
	}
	storeCtx := context.WithoutCancel(ctx)
	record, err := s.jobStore.Get(storeCtx, requestID)
	if err != nil || record == nil {
		record = &domain.JobRecord{
			RequestID: requestID,
			State:     domain.StateDone,
			Video:     job.Video,
			ClipCount: job.ClipCount,
		}
	}
	record.Delivered = true
	if archiveKey != "" {
		record.ArchiveKey = archiveKey
	}
	record.UpdatedAt = time.Now().UTC()
	if err := s.jobStore.Save(storeCtx, *record); err != nil {
		s.logger.Error(err, "Failed to save delivery state")
	}
}

// lessonMetadata prefers the course fields returned by the model over the request's.
func lessonMetadata(requested domain.CourseMetadata, lesson domain.LessonContent) domain.CourseMetadata {
	metadata := requested
	if lesson.Topic != "" {
		metadata.Topic = lesson.Topic
	}
	if lesson.Level != "" {
		metadata.Level = lesson.Level
	}
	if len(lesson.Axes) > 0 {
		metadata.Axes = lesson.Axes
	}
	return metadata.WithDefaults()
}
