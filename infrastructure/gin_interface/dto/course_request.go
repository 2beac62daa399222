package dto

import "github.com/MonsefRH/E-learn/domain"

type CourseRequest struct {
	Language string   `json:"language"`
	Topic    string   `json:"topic"`
	Level    string   `json:"level"`
	Axes     []string `json:"axes"`
}

func (r CourseRequest) ToMetadata() domain.CourseMetadata {
	return domain.CourseMetadata{
		Language: domain.ParseLanguage(r.Language),
		Topic:    r.Topic,
		Level:    r.Level,
		Axes:     r.Axes,
	}.WithDefaults()
}

type ProcessContentRequest struct {
	Payload  CourseRequest        `json:"payload"`
	Response domain.LessonContent `json:"response"`
}

type StartGenerationResponse struct {
	Message     string                `json:"message"`
	AiRequestID string                `json:"ai_request_id"`
	Response    *domain.LessonContent `json:"response"`
}

type ProcessContentResponse struct {
	Message string           `json:"message"`
	Result  ProcessedContent `json:"result"`
}

type ProcessedContent struct {
	Slides     []domain.SlideArtifact `json:"slides"`
	AudioFiles []domain.AudioArtifact `json:"audio_files"`
	Video      string                 `json:"video"`
	Skipped    []domain.SkippedSlide  `json:"skipped"`
	Reused     bool                   `json:"reused"`
	ArchiveKey string                 `json:"archive_key,omitempty"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
