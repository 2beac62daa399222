package adapters

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
	"sync"
)

type memoryJobStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.JobRecord
}

func NewMemoryJobStore() outbound.JobStorePort {
	return &memoryJobStore{records: make(map[uuid.UUID]domain.JobRecord)}
}

func (m *memoryJobStore) Save(_ context.Context, record domain.JobRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.RequestID] = record
	return nil
}

func (m *memoryJobStore) Get(_ context.Context, requestID uuid.UUID) (*domain.JobRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[requestID]
	if !ok {
		return nil, domain.Wrap(domain.KindArtifactNotFound, "job store", "get", requestID.String(), nil)
	}
	return &record, nil
}
