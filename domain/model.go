package domain

import (
	"encoding/json"
	"github.com/google/uuid"
	"strings"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageSpanish Language = "es"
	LanguageItalian Language = "it"
)

func ParseLanguage(code string) Language {
	return Language(strings.ToLower(strings.TrimSpace(code)))
}

func (l Language) Supported() bool {
	switch l {
	case LanguageEnglish, LanguageFrench, LanguageSpanish, LanguageItalian:
		return true
	}
	return false
}

type Slide struct {
	ID          *int   `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	ExampleCode string `json:"example_code"`
}

type NarrationEntry struct {
	SlideID         *int   `json:"slide_id"`
	Script          string `json:"script"`
	CodeExplanation string `json:"code_explanation,omitempty"`
}

// UnmarshalJSON accepts "id" as an alias of "slide_id"; the model service emits the former.
func (n *NarrationEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		SlideID         *int   `json:"slide_id"`
		ID              *int   `json:"id"`
		Script          string `json:"script"`
		CodeExplanation string `json:"code_explanation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.SlideID = raw.SlideID
	if n.SlideID == nil {
		n.SlideID = raw.ID
	}
	n.Script = raw.Script
	n.CodeExplanation = raw.CodeExplanation
	return nil
}

var unavailableExplanations = map[string]struct{}{
	"Explication indisponible": {},
	"Explanation unavailable":  {},
}

func IsUnavailableExplanation(text string) bool {
	_, ok := unavailableExplanations[strings.TrimSpace(text)]
	return ok
}

// FullScript joins the script with the code explanation. An empty result means the slide has nothing to narrate.
func (n NarrationEntry) FullScript() string {
	script := strings.TrimSpace(n.Script)
	if IsUnavailableExplanation(script) {
		script = ""
	}
	explanation := strings.TrimSpace(n.CodeExplanation)
	if explanation == "" || IsUnavailableExplanation(explanation) {
		return script
	}
	if script == "" {
		return explanation
	}
	return script + "\n" + explanation
}

type CourseMetadata struct {
	Language Language `json:"language"`
	Topic    string   `json:"topic"`
	Level    string   `json:"level"`
	Axes     []string `json:"axes"`
}

const (
	DefaultTopic = "Default Topic"
	DefaultLevel = "beginner"
)

func DefaultAxes() []string {
	return []string{"introduction", "examples"}
}

func (m CourseMetadata) WithDefaults() CourseMetadata {
	if m.Language == "" {
		m.Language = LanguageEnglish
	}
	if strings.TrimSpace(m.Topic) == "" {
		m.Topic = DefaultTopic
	}
	if strings.TrimSpace(m.Level) == "" {
		m.Level = DefaultLevel
	}
	if len(m.Axes) == 0 {
		m.Axes = DefaultAxes()
	}
	return m
}

type LessonContent struct {
	Slides []Slide          `json:"slides"`
	Speech []NarrationEntry `json:"speech"`
	Topic  string           `json:"topic,omitempty"`
	Level  string           `json:"level,omitempty"`
	Axes   []string         `json:"axes,omitempty"`
}

type SlideArtifact struct {
	SlideID  int    `json:"slide_id"`
	HTMLFile string `json:"html_file"`
}

type AudioArtifact struct {
	SlideID   int    `json:"slide_id"`
	AudioFile string `json:"audio_file"`
}

type SkippedSlide struct {
	SlideID int       `json:"slide_id"`
	Kind    ErrorKind `json:"kind"`
	Reason  string    `json:"reason"`
}

type JobResult struct {
	RequestID       uuid.UUID       `json:"request_id"`
	Slides          []SlideArtifact `json:"slides"`
	AudioFiles      []AudioArtifact `json:"audio_files"`
	Video           string          `json:"video"`
	Skipped         []SkippedSlide  `json:"skipped"`
	MissingSlideIDs []int           `json:"missing_slide_ids,omitempty"`
	ClipCount       int             `json:"clip_count"`
	Reused          bool            `json:"reused"`
}
