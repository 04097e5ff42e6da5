// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/streamboard/internal/config"
	"github.com/tomtom215/streamboard/internal/library"
	"github.com/tomtom215/streamboard/internal/models"
	"github.com/tomtom215/streamboard/internal/render"
	"github.com/tomtom215/streamboard/internal/resolve"
	"github.com/tomtom215/streamboard/internal/source"
	"github.com/tomtom215/streamboard/internal/titles"
	"github.com/tomtom215/streamboard/internal/view"
)

type fakeAdapter struct {
	kind  models.SourceKind
	delay time.Duration
	snap  models.SourceSnapshot

	inflight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeAdapter) Kind() models.SourceKind { return f.kind }

func (f *fakeAdapter) Fetch(ctx context.Context) models.SourceSnapshot {
	cur := f.inflight.Add(1)
	for {
		max := f.maxSeen.Load()
		if cur <= max || f.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}
	defer f.inflight.Add(-1)

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			// Deliberately keep blocking past cancellation to exercise
			// the scheduler's timeout path.
			<-time.After(f.delay)
		}
	}
	return f.snap
}

type recordingSink struct {
	mu      sync.Mutex
	outputs []render.Output
}

func (r *recordingSink) Publish(ctx context.Context, out render.Output) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, out)
	return nil
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outputs)
}

type emptyLibraryClient struct{}

func (emptyLibraryClient) GetSessions(ctx context.Context) ([]models.PlexSession, error) {
	return nil, nil
}

func (emptyLibraryClient) GetLibrarySections(ctx context.Context) ([]models.PlexLibrarySection, error) {
	return nil, nil
}

func (emptyLibraryClient) GetSectionCount(ctx context.Context, key string) (int, error) {
	return 0, nil
}

func (emptyLibraryClient) GetSectionEpisodeCount(ctx context.Context, key string) (int, error) {
	return 0, nil
}

func okSnapshot(kind models.SourceKind, streams int) models.SourceSnapshot {
	sessions := make([]models.StreamSession, streams)
	for i := range sessions {
		sessions[i] = models.StreamSession{Source: kind}
	}
	return models.SourceSnapshot{
		Source:     kind,
		CapturedAt: time.Now(),
		OK:         true,
		Payload:    models.StreamList{Sessions: sessions},
	}
}

func newTestScheduler(t *testing.T, cfg *config.Config, adapters []*fakeAdapter, sink Sink) *Scheduler {
	t.Helper()

	aggregator := view.New(cfg, resolve.New(nil), titles.New(nil, 40))
	renderer := render.New(cfg)
	cache := library.NewCache(emptyLibraryClient{}, cfg)

	list := make([]source.Adapter, len(adapters))
	for i, a := range adapters {
		list[i] = a
	}

	return New(cfg, list, cache, aggregator, renderer, sink)
}

func testConfig() *config.Config {
	return &config.Config{
		Scheduler: config.SchedulerConfig{
			Interval:         50 * time.Millisecond,
			SourceTimeout:    20 * time.Millisecond,
			FailureThreshold: 3,
		},
		Library:  config.LibraryConfig{UpdateInterval: time.Hour},
		Presence: config.PresenceConfig{StreamText: "{count} active Stream{s} 🟢", OfflineText: "🔴 Server Offline!"},
	}
}

func TestTickAggregatesAllSources(t *testing.T) {
	plex := &fakeAdapter{kind: models.SourcePlex, snap: okSnapshot(models.SourcePlex, 2)}
	jf := &fakeAdapter{kind: models.SourceJellyfin, snap: okSnapshot(models.SourceJellyfin, 1)}
	sink := &recordingSink{}

	s := newTestScheduler(t, testConfig(), []*fakeAdapter{plex, jf}, sink)
	s.tick(context.Background())

	vm := s.Latest()
	if vm == nil {
		t.Fatal("no view model after tick")
	}
	if vm.TotalCount != 3 {
		t.Errorf("total = %d, want 3", vm.TotalCount)
	}
	if sink.count() != 1 {
		t.Errorf("publishes = %d, want 1", sink.count())
	}
}

func TestTickTimeoutYieldsFailureSnapshot(t *testing.T) {
	fast := &fakeAdapter{kind: models.SourcePlex, snap: okSnapshot(models.SourcePlex, 1)}
	slow := &fakeAdapter{kind: models.SourceJellyfin, delay: time.Second, snap: okSnapshot(models.SourceJellyfin, 5)}
	sink := &recordingSink{}

	s := newTestScheduler(t, testConfig(), []*fakeAdapter{fast, slow}, sink)

	start := time.Now()
	s.tick(context.Background())
	took := time.Since(start)

	if took > 500*time.Millisecond {
		t.Fatalf("tick took %v, must be bounded by the source timeout", took)
	}

	vm := s.Latest()
	// The fast source's streams arrive; the slow one contributes nothing
	// but gets a failure recorded against it.
	if vm.TotalCount != 1 {
		t.Errorf("total = %d, want only the fast source", vm.TotalCount)
	}
	if vm.Health[models.SourceJellyfin].ConsecutiveFailures != 1 {
		t.Errorf("jellyfin health = %+v, want one failure", vm.Health[models.SourceJellyfin])
	}
	if vm.Health[models.SourcePlex].ConsecutiveFailures != 0 {
		t.Errorf("plex health = %+v", vm.Health[models.SourcePlex])
	}
}

func TestServeTicksSequentially(t *testing.T) {
	slow := &fakeAdapter{kind: models.SourcePlex, delay: 10 * time.Millisecond, snap: okSnapshot(models.SourcePlex, 0)}
	sink := &recordingSink{}

	s := newTestScheduler(t, testConfig(), []*fakeAdapter{slow}, sink)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_ = s.Serve(ctx)

	if sink.count() < 2 {
		t.Fatalf("publishes = %d, want several ticks", sink.count())
	}
	if max := slow.maxSeen.Load(); max > 1 {
		t.Errorf("max concurrent fetches = %d, ticks must not overlap", max)
	}
}

func TestLatestNilBeforeFirstTick(t *testing.T) {
	s := newTestScheduler(t, testConfig(), nil, &recordingSink{})
	if s.Latest() != nil {
		t.Error("Latest must be nil before the first tick")
	}
}
