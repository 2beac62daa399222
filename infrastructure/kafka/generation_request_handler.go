package kafka

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
)

type GenerationRequest struct {
	RequestID string                  `json:"request_id"`
	Language  string                  `json:"language"`
	Topic     string                  `json:"topic"`
	Level     string                  `json:"level"`
	Axes      []string                `json:"axes"`
	Slides    []domain.Slide          `json:"slides"`
	Speech    []domain.NarrationEntry `json:"speech"`
}

func NewGenerationRequestHandler(logger outbound.LoggerPort, delivery inbound.PresentationDeliveryPort) *TypedMessageHandler[GenerationRequest] {
	return &TypedMessageHandler[GenerationRequest]{
		Logger:     logger,
		AlwaysMark: true,
		Validate: func(msg *GenerationRequest) bool {
			if _, err := uuid.Parse(msg.RequestID); err != nil {
				logger.WarnWithFields("Dropping generation request with invalid id", map[string]interface{}{
					"request_id": msg.RequestID,
				})
				return false
			}
			if len(msg.Slides) == 0 {
				logger.WarnWithFields("Dropping generation request without slides", map[string]interface{}{
					"request_id": msg.RequestID,
				})
				return false
			}
			return true
		},
		Process: func(ctx context.Context, msg *GenerationRequest) (bool, error) {
			requestID := uuid.MustParse(msg.RequestID)
			_, err := delivery.ProcessAndDeliver(ctx, inbound.DeliverPresentationParams{
				RequestID: requestID,
				Lesson: domain.LessonContent{
					Slides: msg.Slides,
					Speech: msg.Speech,
				},
				Metadata: domain.CourseMetadata{
					Language: domain.ParseLanguage(msg.Language),
					Topic:    msg.Topic,
					Level:    msg.Level,
					Axes:     msg.Axes,
				},
			})
			if err != nil {
				return isFinal(err), err
			}
			return true, nil
		},
	}
}

// isFinal reports failures that a redelivery cannot fix.
func isFinal(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindNoRenderableContent:
		return true
	}
	return false
}
