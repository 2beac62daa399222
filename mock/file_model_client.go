package mock_generator

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type fileModelClient struct {
	logger outbound.LoggerPort
	reader LessonReader
}

// NewFileModelClient answers every content request with the canned lesson; used when no model API is configured.
func NewFileModelClient(logger outbound.LoggerPort, reader LessonReader) outbound.ModelClientPort {
	return &fileModelClient{
		logger: logger,
		reader: reader,
	}
}

func (m *fileModelClient) GenerateContent(ctx context.Context, requestID uuid.UUID, metadata domain.CourseMetadata) (*domain.LessonContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lesson, err := m.reader.Read()
	if err != nil {
		return nil, domain.Wrap(domain.KindUpstreamUnavailable, "mock model", "read lesson", "", err)
	}
	content := lesson.LessonContent
	metadata = metadata.WithDefaults()
	if content.Topic == "" {
		content.Topic = metadata.Topic
	}
	if content.Level == "" {
		content.Level = metadata.Level
	}
	if len(content.Axes) == 0 {
		content.Axes = metadata.Axes
	}
	m.logger.InfoWithFields("Serving mock lesson", map[string]interface{}{
		"request_id": requestID.String(),
		"slides":     len(content.Slides),
	})
	return &content, nil
}
