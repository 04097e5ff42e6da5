// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package scheduler drives the dashboard refresh loop. Each tick fans
// out to all enabled sources concurrently under a per-source timeout,
// aggregates whatever came back, renders, and publishes. Ticks run
// sequentially on one goroutine: a slow tick delays the next one, it is
// never overlapped by it.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/streamboard/internal/config"
	"github.com/tomtom215/streamboard/internal/library"
	"github.com/tomtom215/streamboard/internal/logging"
	"github.com/tomtom215/streamboard/internal/metrics"
	"github.com/tomtom215/streamboard/internal/models"
	"github.com/tomtom215/streamboard/internal/render"
	"github.com/tomtom215/streamboard/internal/source"
	"github.com/tomtom215/streamboard/internal/view"
)

// Sink receives rendered output at the end of each tick.
type Sink interface {
	Publish(ctx context.Context, out render.Output) error
}

// Scheduler is the tick loop, run under the supervision tree.
type Scheduler struct {
	cfg        *config.Config
	adapters   []source.Adapter
	cache      *library.Cache
	aggregator *view.Aggregator
	renderer   *render.Renderer
	sink       Sink

	mu     sync.RWMutex
	latest *models.ViewModel
}

// New builds the scheduler. The adapter list holds only the enabled
// sources; disabled integrations are simply absent.
func New(cfg *config.Config, adapters []source.Adapter, cache *library.Cache, aggregator *view.Aggregator, renderer *render.Renderer, sink Sink) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		adapters:   adapters,
		cache:      cache,
		aggregator: aggregator,
		renderer:   renderer,
		sink:       sink,
	}
}

// String names the service in supervisor logs.
func (s *Scheduler) String() string {
	return "dashboard-scheduler"
}

// Serve implements suture.Service. It ticks immediately on start and
// then on every interval until the context is canceled.
func (s *Scheduler) Serve(ctx context.Context) error {
	logging.Info().
		Dur("interval", s.cfg.Scheduler.Interval).
		Int("sources", len(s.adapters)).
		Msg("Starting dashboard scheduler")

	s.tick(ctx)

	ticker := time.NewTicker(s.cfg.Scheduler.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Dashboard scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Latest returns the view model of the most recent completed tick, or
// nil before the first tick finishes.
func (s *Scheduler) Latest() *models.ViewModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// tick runs one full refresh cycle.
func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()

	snaps := s.fetchAll(ctx)
	sections := s.cache.Snapshot(ctx)
	vm := s.aggregator.Build(snaps, sections, time.Now())

	s.mu.Lock()
	s.latest = vm
	s.mu.Unlock()

	out := s.renderer.Render(vm)
	if err := s.sink.Publish(ctx, out); err != nil {
		logging.Error().Err(err).Msg("Dashboard publish failed")
	}

	metrics.TickDuration.Observe(time.Since(start).Seconds())
	metrics.TicksTotal.Inc()

	logging.Debug().
		Dur("took", time.Since(start)).
		Int("streams", vm.TotalCount).
		Msg("Tick complete")
}

// fetchAll polls every source concurrently. Each fetch gets its own
// timeout; a source that overruns it contributes a synthesized failure
// snapshot instead of stalling the tick.
func (s *Scheduler) fetchAll(ctx context.Context) []models.SourceSnapshot {
	snaps := make([]models.SourceSnapshot, len(s.adapters))

	var wg sync.WaitGroup
	for i, adapter := range s.adapters {
		wg.Add(1)
		go func(i int, adapter source.Adapter) {
			defer wg.Done()
			snaps[i] = s.fetchOne(ctx, adapter)
		}(i, adapter)
	}
	wg.Wait()

	return snaps
}

// fetchOne runs a single guarded fetch. The result is taken from a
// channel so a fetch that ignores cancellation still cannot hold the
// tick past the deadline.
func (s *Scheduler) fetchOne(ctx context.Context, adapter source.Adapter) models.SourceSnapshot {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.Scheduler.SourceTimeout)
	defer cancel()

	done := make(chan models.SourceSnapshot, 1)
	go func() {
		done <- adapter.Fetch(fetchCtx)
	}()

	select {
	case snap := <-done:
		return snap
	case <-fetchCtx.Done():
		logging.Warn().
			Str("source", string(adapter.Kind())).
			Dur("timeout", s.cfg.Scheduler.SourceTimeout).
			Msg("Source fetch timed out")
		return models.FailedSnapshot(adapter.Kind(), time.Now(), fetchCtx.Err())
	}
}
