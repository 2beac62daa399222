package domain

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"strings"
)

type ErrorKind string

const (
	KindValidation          ErrorKind = "ValidationError"
	KindUpstreamUnavailable ErrorKind = "UpstreamUnavailable"
	KindRenderFailure       ErrorKind = "RenderFailure"
	KindEncodeFailure       ErrorKind = "EncodeFailure"
	KindNoRenderableContent ErrorKind = "NoRenderableContent"
	KindArtifactNotFound    ErrorKind = "ArtifactNotFound"
	KindCancelled           ErrorKind = "Cancelled"
	KindJobInProgress       ErrorKind = "JobInProgress"
	KindInternal            ErrorKind = "InternalError"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrRenderFailure       = errors.New("render failure")
	ErrEncodeFailure       = errors.New("encode failure")
	ErrNoRenderableContent = errors.New("no renderable content")
	ErrArtifactNotFound    = errors.New("artifact not found")
	ErrCancelled           = errors.New("cancelled")
	ErrJobInProgress       = errors.New("job in progress")
	ErrInternal            = errors.New("internal error")
)

var kindMarkers = []struct {
	kind   ErrorKind
	marker error
}{
	{KindValidation, ErrValidation},
	{KindUpstreamUnavailable, ErrUpstreamUnavailable},
	{KindRenderFailure, ErrRenderFailure},
	{KindEncodeFailure, ErrEncodeFailure},
	{KindNoRenderableContent, ErrNoRenderableContent},
	{KindArtifactNotFound, ErrArtifactNotFound},
	{KindCancelled, ErrCancelled},
	{KindJobInProgress, ErrJobInProgress},
	{KindInternal, ErrInternal},
}

func (k ErrorKind) Marker() error {
	for _, km := range kindMarkers {
		if km.kind == k {
			return km.marker
		}
	}
	return ErrInternal
}

// Wrap tags err with the marker of kind and prefixes it with the stage and operation that failed.
func Wrap(kind ErrorKind, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", kind.Marker(), detail, err)
	}
	return fmt.Errorf("%w: %s", kind.Marker(), detail)
}

// KindOf classifies err. Context cancellation maps to KindCancelled; unknown errors are internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var jobErr *JobError
	if errors.As(err, &jobErr) {
		return jobErr.Kind
	}
	for _, km := range kindMarkers {
		if errors.Is(err, km.marker) {
			return km.kind
		}
	}
	if IsCancellation(err) {
		return KindCancelled
	}
	return KindInternal
}

func IsCancellation(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type JobError struct {
	RequestID uuid.UUID
	Kind      ErrorKind
	Message   string
	Err       error
}

func NewJobError(requestID uuid.UUID, err error) *JobError {
	var jobErr *JobError
	if errors.As(err, &jobErr) {
		return jobErr
	}
	return &JobError{
		RequestID: requestID,
		Kind:      KindOf(err),
		Message:   err.Error(),
		Err:       err,
	}
}

func (e *JobError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("job %s: %s", e.RequestID, e.Kind)
	}
	return fmt.Sprintf("job %s: %s: %s", e.RequestID, e.Kind, e.Message)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

func (e *JobError) Is(target error) bool {
	return target == e.Kind.Marker()
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
