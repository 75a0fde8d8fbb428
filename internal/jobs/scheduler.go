package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultSpec = "*/5 * * * *"
	jobTimeout  = time.Minute
)

// Sweeper is the set of periodic booking jobs.
type Sweeper interface {
	SendReminders(ctx context.Context) (int, error)
	CancelStalePending(ctx context.Context) (int, error)
}

// Scheduler runs the booking sweeps on a cron spec.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	logger  *zap.Logger
}

func NewScheduler(sweeper Sweeper, spec string, loc *time.Location, logger *zap.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		sweeper: sweeper,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("starting booking sweeps", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping booking sweeps")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("booking sweeps still running at shutdown")
	}
}

// RunOnce runs every sweep a single time.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	sent, err := s.sweeper.SendReminders(ctx)
	if err != nil {
		s.logger.Error("reminder sweep failed", zap.Error(err))
	} else if sent > 0 {
		s.logger.Info("reminders sent", zap.Int("count", sent))
	}

	cancelled, err := s.sweeper.CancelStalePending(ctx)
	if err != nil {
		s.logger.Error("stale pending sweep failed", zap.Error(err))
	} else if cancelled > 0 {
		s.logger.Info("stale pending bookings cancelled", zap.Int("count", cancelled))
	}
}
