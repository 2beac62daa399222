package services

import (
	"context"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
	"os"
)

type presentationQuery struct {
	layout   domain.ArtifactLayout
	jobStore outbound.JobStorePort
}

func NewPresentationQuery(layout domain.ArtifactLayout, jobStore outbound.JobStorePort) inbound.PresentationQueryPort {
	return &presentationQuery{
		layout:   layout,
		jobStore: jobStore,
	}
}

func (q *presentationQuery) SlidesManifest(requestID uuid.UUID) ([]byte, error) {
	path := q.layout.Job(requestID).SlidesJSON()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.Wrap(domain.KindArtifactNotFound, "query", "slides", "slides data not found", nil)
		}
		return nil, domain.Wrap(domain.KindInternal, "query", "slides", path, err)
	}
	return data, nil
}

func (q *presentationQuery) SlideHTMLPath(requestID uuid.UUID, slideID int) (string, error) {
	return existingArtifact(q.layout.Job(requestID).SlideHTML(slideID), fmt.Sprintf("slide %d not found", slideID))
}

func (q *presentationQuery) AudioPath(requestID uuid.UUID, slideID int) (string, error) {
	return existingArtifact(q.layout.Job(requestID).Audio(slideID), fmt.Sprintf("audio %d not found", slideID))
}

// Status falls back to the directory contents when no record exists, e.g. after a restart with the memory store.
func (q *presentationQuery) Status(ctx context.Context, requestID uuid.UUID) (*domain.JobRecord, error) {
	record, err := q.jobStore.Get(ctx, requestID)
	if err == nil {
		return record, nil
	}
	if domain.KindOf(err) != domain.KindArtifactNotFound {
		return nil, err
	}
	paths := q.layout.Job(requestID)
	if fileExists(paths.FinalVideo()) {
		return &domain.JobRecord{
			RequestID: requestID,
			State:     domain.StateDone,
			Video:     paths.FinalVideo(),
		}, nil
	}
	return nil, err
}

func existingArtifact(path string, message string) (string, error) {
	if !fileExists(path) {
		return "", domain.Wrap(domain.KindArtifactNotFound, "query", "", message, nil)
	}
	return path, nil
}
