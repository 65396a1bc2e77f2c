// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardsync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/boardsync/lib/clock"
)

// DefaultInterval is the period between scheduled runs.
const DefaultInterval = time.Hour

// Scheduler runs Engine.RunSync periodically. At most one loop is
// active at a time.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	mu   sync.Mutex
	loop *loopHandle
}

// loopHandle identifies an active loop.
type loopHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler returns a stopped scheduler. A non-positive interval
// means DefaultInterval.
func NewScheduler(engine *Engine, interval time.Duration, clk clock.Clock, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		engine:   engine,
		interval: interval,
		clock:    clk,
		logger:   logger,
	}
}

// Start persists is_updating=true and starts the periodic loop. The
// first run happens one interval from now. Returns ErrAlreadyRunning
// when a loop is already active.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.Running() {
		return ErrAlreadyRunning
	}
	// SetUpdating waits for any sync in progress, so s.mu is not held
	// across it.
	if err := s.engine.SetUpdating(ctx, true); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop != nil {
		return ErrAlreadyRunning
	}
	s.startLocked(ctx)
	return nil
}

func (s *Scheduler) startLocked(ctx context.Context) {
	loopContext, cancel := context.WithCancel(context.WithoutCancel(ctx))
	handle := &loopHandle{cancel: cancel, done: make(chan struct{})}
	s.loop = handle

	// The ticker is created before the goroutine starts so that a
	// caller advancing a fake clock right after Start sees it.
	ticker := s.clock.NewTicker(s.interval)
	go s.run(loopContext, ticker, handle.done)
	s.logger.Info("periodic board update started", "interval", s.interval)
}

func (s *Scheduler) run(ctx context.Context, ticker *clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		// A tick and Stop may arrive together; select picks either.
		if ctx.Err() != nil {
			return
		}
		s.fire(ctx)
	}
}

// fire performs one scheduled run. The run is detached from the loop
// context so that Stop does not abort a sync already in flight.
func (s *Scheduler) fire(ctx context.Context) {
	s.logger.Info("scheduled board update")
	result, err := s.engine.RunSync(context.WithoutCancel(ctx))
	if err != nil {
		if errors.Is(err, ErrNoChannel) {
			s.logger.Error("scheduled board update skipped", "error", err)
		} else {
			s.logger.Error("scheduled board update failed", "error", err)
		}
		return
	}
	s.logger.Info("scheduled board update done", "action", result.Action, "event_id", result.EventID)
}

// Stop cancels future runs and persists is_updating=false. A run in
// flight completes. Stop is idempotent.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	handle := s.loop
	s.loop = nil
	s.mu.Unlock()

	if handle != nil {
		handle.cancel()
		s.logger.Info("periodic board update stopped")
	}
	return s.engine.SetUpdating(ctx, false)
}

// Running reports whether the periodic loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop != nil
}

// Resume starts the loop without persisting when the record says it
// was running at shutdown. It reports whether the loop was started.
func (s *Scheduler) Resume(ctx context.Context) bool {
	if !s.engine.State().IsUpdating {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop != nil {
		return false
	}
	s.startLocked(ctx)
	return true
}

// Close stops the loop without touching the record and waits for its
// goroutine to exit. Used at shutdown so a restart resumes the loop.
func (s *Scheduler) Close() {
	s.mu.Lock()
	handle := s.loop
	s.loop = nil
	s.mu.Unlock()

	if handle != nil {
		handle.cancel()
		<-handle.done
	}
}
