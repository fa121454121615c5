package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Entry schedules Job every Interval.
type Entry struct {
	Job      Job
	Interval time.Duration
}

// Scheduler runs each entry in its own goroutine: once at start, then on
// every tick. Runs of the same job never overlap; a slow run delays the next.
type Scheduler struct {
	runner  *Runner
	entries []Entry
}

func NewScheduler(runner *Runner, entries ...Entry) *Scheduler {
	return &Scheduler{runner: runner, entries: entries}
}

// Run blocks until ctx is cancelled and every job loop has returned.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.entries) == 0 {
		return errors.New("no jobs to schedule")
	}
	for _, e := range s.entries {
		if e.Interval <= 0 {
			return errors.New("job " + e.Job.Name() + " has a non-positive interval")
		}
	}

	var wg sync.WaitGroup
	for _, e := range s.entries {
		wg.Add(1)
		go func(e Entry) {
			defer wg.Done()
			s.loop(ctx, e)
		}(e)
	}

	log.Info().Int("jobs", len(s.entries)).Msg("Job scheduler started")
	wg.Wait()
	log.Info().Msg("Job scheduler stopped")
	return nil
}

func (s *Scheduler) loop(ctx context.Context, e Entry) {
	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	log.Info().Str("job", e.Job.Name()).Dur("interval", e.Interval).Msg("Job scheduled")
	s.runner.Run(ctx, e.Job)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runner.Run(ctx, e.Job)
		}
	}
}
