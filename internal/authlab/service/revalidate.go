package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RevalidationService periodically re-runs validation so the served report
// follows the file when it is regenerated underneath the server.
type RevalidationService struct {
	Validator *ValidatorService
	Logger    *slog.Logger
	Interval  time.Duration

	mu      sync.RWMutex
	latest  *Report
	lastErr error

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRevalidationService creates a new revalidation service with the given interval.
// If interval is 0 or negative, defaults to 5 minutes.
func NewRevalidationService(validator *ValidatorService, logger *slog.Logger, interval time.Duration) *RevalidationService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &RevalidationService{
		Validator: validator,
		Logger:    logger,
		Interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. It is non-blocking; call Stop() to
// shut the worker down.
func (s *RevalidationService) Start() {
	go s.run()
	s.Logger.Info("revalidation service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress validation.
func (s *RevalidationService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("revalidation service stopped")
}

// Latest returns the most recent report. ok is false until the first run
// has completed; err is the failure of the most recent run, if any.
func (s *RevalidationService) Latest() (rep Report, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Report{}, false, s.lastErr
	}
	return *s.latest, true, s.lastErr
}

func (s *RevalidationService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Validate immediately on startup
	s.Revalidate(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Revalidate(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Revalidate runs one validation pass and caches its outcome. A failing run
// keeps the previous report.
func (s *RevalidationService) Revalidate(ctx context.Context) {
	start := time.Now()
	rep, err := s.Validator.Validate(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = err
	if err != nil {
		s.Logger.Error("revalidation failed", "error", err)
		return
	}
	s.latest = &rep
	s.Logger.Info("revalidation completed",
		"ok", rep.OK,
		"failed_checks", len(rep.Failed()),
		"duration", time.Since(start),
	)
}
