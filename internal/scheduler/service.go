// Package scheduler drives the monitoring loop and the periodic digest
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// fallbackDelay is used after a cycle-level failure or when no platform
// credentials are configured yet, instead of the normal interval.
const fallbackDelay = time.Minute

// defaultInterval guards against a zero or negative configured interval
const defaultInterval = 15 * time.Minute

// digestSchedule fires the daily digest at 09:00 UTC (seconds-field cron)
var digestSchedule = "0 0 9 * * *"

// Monitor is the subset of the monitoring service the scheduler drives
type Monitor interface {
	RunCycle(ctx context.Context) (time.Duration, error)
	SendDigest(ctx context.Context, since time.Time, period string) error
}

// Service runs the monitoring loop until stopped, plus a daily digest job
type Service struct {
	monitor Monitor
	cron    *cron.Cron
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewService creates a scheduler for the given monitor
func NewService(monitor Monitor) *Service {
	return &Service{
		monitor: monitor,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start registers the digest cron job, then launches the monitoring loop.
// Nothing runs when registration fails.
func (s *Service) Start() error {
	ctx, cancel := context.WithCancel(context.Background())

	// Daily digest covering the last 24 hours
	_, err := s.cron.AddFunc(digestSchedule, func() {
		logrus.Info("Starting daily digest job")
		if err := s.monitor.SendDigest(ctx, time.Now().UTC().Add(-24*time.Hour), "daily"); err != nil {
			logrus.Errorf("Daily digest failed: %v", err)
		}
	})
	if err != nil {
		cancel()
		return err
	}

	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()

	s.cron.Start()
	logrus.Info("Scheduler started")
	return nil
}

// Stop cancels the loop and waits for the in-flight cycle to finish. The
// cycle honors cancellation between items, so no item is left half-persisted.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		s.cron.Stop()
	}
	s.wg.Wait()
	logrus.Info("Scheduler stopped")
}

// runLoop runs monitoring cycles forever, sleeping between them. Cycle
// failures never terminate the loop; they shorten the sleep to the fallback
// delay so a transient outage recovers quickly.
func (s *Service) runLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		interval, err := s.monitor.RunCycle(ctx)
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			logrus.Errorf("Monitoring cycle failed: %v", err)
			interval = fallbackDelay
		case interval <= 0:
			interval = defaultInterval
		}

		logrus.Infof("Next monitoring cycle in %v", interval)

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}
