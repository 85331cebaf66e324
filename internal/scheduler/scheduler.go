package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"news_harvester/internal/domain"
)

// Harvester runs one full pass over an outlet.
type Harvester interface {
	Harvest(ctx context.Context) (*domain.HarvestStats, error)
}

// Job pairs a harvester with its cadence. Outlets publish at very
// different rates, so every job keeps its own interval.
type Job struct {
	Name      string
	Harvester Harvester
	Interval  time.Duration
}

type Scheduler struct {
	jobs       []Job
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewScheduler(jobs []Job, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		jobs:       jobs,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// Start launches one ticker goroutine per job and blocks until ctx is
// cancelled. Each job runs once immediately, then on its interval.
func (s *Scheduler) Start(ctx context.Context) error {
	var wg sync.WaitGroup

	for _, job := range s.jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.runJob(ctx, job)
		}(job)
	}

	wg.Wait()
	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	logger := s.logger.With("job", job.Name)
	logger.Info("job scheduled", "interval", job.Interval)

	s.runOnce(ctx, job, logger)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("job stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx, job, logger)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job, logger *slog.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if _, err := job.Harvester.Harvest(runCtx); err != nil {
		logger.Error("harvest failed", "error", err)
	}
}
