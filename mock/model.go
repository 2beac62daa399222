package mock_generator

import "github.com/MonsefRH/E-learn/domain"

type MockLesson struct {
	domain.LessonContent
	DelayMs int `json:"delay_ms"`
}

type LessonEvent struct {
	Type    string      `json:"type"`
	SlideID int         `json:"slide_id"`
	Payload interface{} `json:"payload"`
}

const (
	SlideEventType  = "slide"
	SpeechEventType = "speech"
)
