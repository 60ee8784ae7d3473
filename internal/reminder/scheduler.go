package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs SendAll on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sender  *Sender
	logger  *slog.Logger
	timeout time.Duration
}

// NewScheduler parses spec (five fields, optional CRON_TZ= prefix) and
// registers the reminder job.
func NewScheduler(spec string, sender *Sender, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{cron: cron.New(), sender: sender, logger: logger, timeout: 30 * time.Minute}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.sender.SendAll(ctx); err != nil {
		s.logger.Error("reminder run failed", "error", err)
	}
}

// Next returns the next activation time after Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("reminder scheduler started", "next", s.Next())
}

// Stop stops the scheduler and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
