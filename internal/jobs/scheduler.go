// Package jobs runs periodic maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionPruner removes expired sessions.
type SessionPruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Scheduler wraps a cron runner with the service's maintenance jobs.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// NewScheduler returns an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		timeout: time.Minute,
	}
}

// RegisterSessionPruning schedules pruner on spec (standard cron syntax or descriptors such as @daily).
func (s *Scheduler) RegisterSessionPruning(spec string, pruner SessionPruner) error {
	if _, err := s.cron.AddFunc(spec, func() { s.pruneSessions(pruner) }); err != nil {
		return fmt.Errorf("schedule session pruning %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) pruneSessions(pruner SessionPruner) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	removed, err := pruner.Prune(ctx)
	if err != nil {
		log.Error().Err(err).Msg("session pruning failed")
		return
	}
	log.Info().Int64("removed", removed).Msg("expired sessions pruned")
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler starting")
	s.cron.Start()
}

// Shutdown stops scheduling and waits for running jobs until ctx ends.
func (s *Scheduler) Shutdown(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		log.Info().Msg("scheduler stopped")
	case <-ctx.Done():
		log.Warn().Msg("scheduler stop timed out")
	}
}
