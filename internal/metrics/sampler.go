package metrics

import (
	"context"
	"log/slog"
	"time"
)

// Sampler drives the collector on a fixed cadence, validating each reading
// before it enters history. One sampler goroutine runs for the process
// lifetime; a bad tick is logged and the loop continues at the next one.
type Sampler struct {
	collector Collector
	history   *History
	logger    *slog.Logger
	interval  time.Duration
	stopCh    chan struct{}
}

// NewSampler creates a sampler writing into history every interval.
func NewSampler(collector Collector, history *History, logger *slog.Logger, interval time.Duration) *Sampler {
	return &Sampler{
		collector: collector,
		history:   history,
		logger:    logger,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start runs the sampling loop until Stop is called or ctx is cancelled.
// Intended to run in its own goroutine. The ticker never double-fires: a slow
// collection simply delays the next tick.
func (s *Sampler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First sample immediately so history is useful right after startup.
	s.sampleOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.sampleOnce(ctx)
		case <-s.stopCh:
			s.logger.Info("metrics sampler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("metrics sampler context cancelled")
			return
		}
	}
}

// Stop signals the sampling loop to exit. An in-flight push completes first.
func (s *Sampler) Stop() {
	close(s.stopCh)
}

// History returns the snapshot buffer the sampler writes into.
func (s *Sampler) History() []Snapshot {
	return s.history.Snapshots()
}

func (s *Sampler) sampleOnce(ctx context.Context) {
	collectCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	snap, err := s.collector.Collect(collectCtx)
	if err != nil {
		s.logger.Error("metrics collection failed", slog.Any("error", err))
		return
	}

	snap = snap.Clamp()
	if err := snap.Validate(); err != nil {
		// Clamping handles transient out-of-range readings; anything still
		// invalid is discarded rather than corrupting history.
		s.logger.Warn("discarding invalid sample", slog.Any("error", err))
		return
	}

	s.history.Push(snap)
}
