// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package source

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/streamboard/internal/logging"
	"github.com/tomtom215/streamboard/internal/metrics"
	"github.com/tomtom215/streamboard/internal/models"
)

// Disabled integrations (missing credentials) never get an adapter
// constructed, so they are excluded from the scheduler's fan-out and
// from health accounting by construction.

// Adapter is the scheduler-facing fetch contract. Fetch never returns
// an error: all failure modes resolve to a snapshot with OK=false.
type Adapter interface {
	Kind() models.SourceKind
	Fetch(ctx context.Context) models.SourceSnapshot
}

// fetchFunc is the underlying typed fetch an adapter wraps.
type fetchFunc func(ctx context.Context) (models.SnapshotPayload, error)

// snapshotAdapter wraps a typed fetch with circuit breaking, metrics,
// and snapshot capture. One breaker per source keeps a flapping
// upstream from being hammered on every tick while the others poll
// normally.
type snapshotAdapter struct {
	kind    models.SourceKind
	fetch   fetchFunc
	breaker *gobreaker.CircuitBreaker[models.SnapshotPayload]
}

func newSnapshotAdapter(kind models.SourceKind, fetch fetchFunc) *snapshotAdapter {
	settings := gobreaker.Settings{
		Name:    string(kind),
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, int(to))
			logging.Warn().
				Str("source", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Source circuit breaker state changed")
		},
	}

	return &snapshotAdapter{
		kind:    kind,
		fetch:   fetch,
		breaker: gobreaker.NewCircuitBreaker[models.SnapshotPayload](settings),
	}
}

// Kind identifies the wrapped source.
func (a *snapshotAdapter) Kind() models.SourceKind {
	return a.kind
}

// Fetch performs one guarded fetch and captures the outcome as an
// immutable snapshot.
func (a *snapshotAdapter) Fetch(ctx context.Context) models.SourceSnapshot {
	start := time.Now()

	payload, err := a.breaker.Execute(func() (models.SnapshotPayload, error) {
		return a.fetch(ctx)
	})

	metrics.ObserveFetch(string(a.kind), start, err)

	if err != nil {
		return models.FailedSnapshot(a.kind, time.Now(), err)
	}

	return models.SourceSnapshot{
		Source:     a.kind,
		CapturedAt: time.Now(),
		OK:         true,
		Payload:    payload,
	}
}

// NewPlexAdapter builds the stream snapshot adapter for Plex.
func NewPlexAdapter(client PlexClientInterface) Adapter {
	return newSnapshotAdapter(models.SourcePlex, func(ctx context.Context) (models.SnapshotPayload, error) {
		sessions, err := client.GetSessions(ctx)
		if err != nil {
			return nil, err
		}

		streams := make([]models.StreamSession, 0, len(sessions))
		for i := range sessions {
			streams = append(streams, SessionToStream(&sessions[i]))
		}
		return models.StreamList{Sessions: streams}, nil
	})
}

// NewJellyfinAdapter builds the stream snapshot adapter for Jellyfin.
func NewJellyfinAdapter(client JellyfinClientInterface) Adapter {
	return newSnapshotAdapter(models.SourceJellyfin, func(ctx context.Context) (models.SnapshotPayload, error) {
		sessions, err := client.GetActiveSessions(ctx)
		if err != nil {
			return nil, err
		}

		streams := make([]models.StreamSession, 0, len(sessions))
		for i := range sessions {
			streams = append(streams, JellyfinSessionToStream(&sessions[i]))
		}
		return models.StreamList{Sessions: streams}, nil
	})
}

// NewSABnzbdAdapter builds the queue snapshot adapter for SABnzbd.
func NewSABnzbdAdapter(client SABnzbdClientInterface) Adapter {
	return newSnapshotAdapter(models.SourceSABnzbd, func(ctx context.Context) (models.SnapshotPayload, error) {
		queue, err := client.GetQueue(ctx)
		if err != nil {
			return nil, err
		}
		return QueueToList(queue), nil
	})
}

// NewUptimeRobotAdapter builds the uptime snapshot adapter.
func NewUptimeRobotAdapter(client UptimeRobotClientInterface) Adapter {
	return newSnapshotAdapter(models.SourceUptimeRobot, func(ctx context.Context) (models.SnapshotPayload, error) {
		monitor, err := client.GetMonitor(ctx)
		if err != nil {
			return nil, err
		}

		stats, err := MonitorToStats(monitor)
		if err != nil {
			return nil, err
		}
		return models.UptimeReport{Stats: stats}, nil
	})
}
