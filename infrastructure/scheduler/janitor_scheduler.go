package scheduler

import (
	"context"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/robfig/cron/v3"
	"sync"
)

type JanitorScheduler struct {
	logger  outbound.LoggerPort
	janitor inbound.ArtifactJanitorPort
	cron    *cron.Cron
	entryID cron.EntryID
	mu      sync.Mutex
	running bool
}

func NewJanitorScheduler(logger outbound.LoggerPort, janitor inbound.ArtifactJanitorPort) *JanitorScheduler {
	return &JanitorScheduler{
		logger:  logger,
		janitor: janitor,
		cron:    cron.New(),
	}
}

func (s *JanitorScheduler) Start(schedule string) error {
	id, err := s.cron.AddFunc(schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to add janitor job: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.logger.InfoWithFields("Janitor scheduled", map[string]interface{}{
		"schedule": schedule,
	})
	return nil
}

// run skips a tick while the previous sweep is still going.
func (s *JanitorScheduler) run() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Janitor sweep still running, tick skipped")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if _, err := s.janitor.Sweep(context.Background()); err != nil {
		s.logger.Error(err, "Janitor sweep failed")
	}
}

func (s *JanitorScheduler) Stop() context.Context {
	return s.cron.Stop()
}
