package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sjperalta/ventas-api/internal/jobs"
	"github.com/sjperalta/ventas-api/pkg/logger"
)

// Scheduler fires recurring jobs onto the background worker
type Scheduler struct {
	cron   *cron.Cron
	worker *jobs.Worker
}

// New creates a scheduler evaluating cron specs in loc with seconds precision
func New(loc *time.Location, worker *jobs.Worker) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		worker: worker,
	}
}

// Register adds a named job on spec. Each tick is queued on the worker so a
// slow run never blocks the cron loop.
func (s *Scheduler) Register(name, spec string, job jobs.Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		logger.Info("scheduled job triggered", "job", name)
		s.worker.Enqueue(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to register %s on %q: %w", name, spec, err)
	}
	logger.Info("scheduled job registered", "job", name, "spec", spec)
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("cron scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for in-flight ticks to hand off their jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("cron scheduler stopped")
}

// Next lists the next fire time of every registered job
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		next = append(next, e.Next)
	}
	return next
}
