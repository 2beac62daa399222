package domain

import (
	"github.com/google/uuid"
	"time"
)

type JobRecord struct {
	RequestID    uuid.UUID `json:"request_id"`
	State        JobState  `json:"state"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Video        string    `json:"video,omitempty"`
	ClipCount    int       `json:"clip_count"`
	SkippedCount int       `json:"skipped_count"`
	Delivered    bool      `json:"delivered"`
	ArchiveKey   string    `json:"archive_key,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
