package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepConfig controls the pending-package sweep.
type SweepConfig struct {
	Schedule string
	MinAge   time.Duration
	Batch    int
	Timeout  time.Duration
}

// Scheduler runs background jobs on cron schedules.
type Scheduler struct {
	cron     *cron.Cron
	payments *PaymentService
	sweep    SweepConfig
	log      *zap.Logger
}

// NewScheduler creates a scheduler. Panicking jobs are recovered and logged.
func NewScheduler(payments *PaymentService, sweep SweepConfig, log *zap.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(log))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))
	return &Scheduler{cron: c, payments: payments, sweep: sweep, log: log}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.sweep.Schedule, s.reconcilePackages); err != nil {
		return err
	}
	s.log.Info("scheduled pending package sweep", zap.String("schedule", s.sweep.Schedule), zap.Duration("min_age", s.sweep.MinAge))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler. The returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) reconcilePackages() {
	ctx, cancel := context.WithTimeout(context.Background(), s.sweep.Timeout)
	defer cancel()

	moved, err := s.payments.ReconcilePending(ctx, s.sweep.MinAge, s.sweep.Batch)
	if err != nil {
		s.log.Error("pending package sweep failed", zap.Error(err))
		return
	}
	if moved > 0 {
		s.log.Info("pending package sweep settled packages", zap.Int("count", moved))
	}
}
