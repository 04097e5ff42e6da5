// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package view merges one tick's source snapshots into the view model
// the dashboard and presence line are rendered from.
//
// The aggregator is the only stateful stage of the pipeline: it tracks
// per-source consecutive failures across ticks so a source past its
// failure threshold is shown as down instead of silently empty, and it
// remembers when the primary stream source went offline.
package view

import (
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/streamboard/internal/config"
	"github.com/tomtom215/streamboard/internal/metrics"
	"github.com/tomtom215/streamboard/internal/models"
	"github.com/tomtom215/streamboard/internal/resolve"
	"github.com/tomtom215/streamboard/internal/titles"
)

// Aggregator builds a fresh ViewModel from each tick's snapshots.
type Aggregator struct {
	cfg        *config.Config
	resolver   *resolve.Resolver
	normalizer *titles.Normalizer

	mu           sync.Mutex
	health       map[models.SourceKind]models.SourceHealth
	offlineSince time.Time
}

// New builds an aggregator. The resolver maps raw account names to
// display names; the normalizer cleans download release titles.
func New(cfg *config.Config, resolver *resolve.Resolver, normalizer *titles.Normalizer) *Aggregator {
	return &Aggregator{
		cfg:        cfg,
		resolver:   resolver,
		normalizer: normalizer,
		health:     make(map[models.SourceKind]models.SourceHealth),
	}
}

// Build merges the tick's snapshots with the cached section stats into
// an immutable view model. Snapshots arrive in source-declaration order;
// stream overflow past MaxStreams drops later sources first.
func (a *Aggregator) Build(snaps []models.SourceSnapshot, sections []models.SectionStats, now time.Time) *models.ViewModel {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Stable source ordering makes the stream cap deterministic: Plex
	// sessions survive overflow ahead of Jellyfin's regardless of which
	// fetch finished first.
	sort.SliceStable(snaps, func(i, j int) bool {
		return sourcePriority(snaps[i].Source) < sourcePriority(snaps[j].Source)
	})

	for i := range snaps {
		a.trackHealth(&snaps[i])
	}

	vm := &models.ViewModel{
		Sections:    sections,
		Health:      a.healthCopy(),
		GeneratedAt: now,
	}

	for i := range snaps {
		snap := &snaps[i]
		if !snap.OK {
			continue
		}

		switch payload := snap.Payload.(type) {
		case models.StreamList:
			a.mergeStreams(vm, payload)
		case models.QueueList:
			a.mergeQueue(vm, payload)
		case models.UptimeReport:
			stats := payload.Stats
			vm.Uptime = &stats
		}
	}

	a.trackOffline(vm, now)
	metrics.ActiveStreams.Set(float64(vm.TotalCount))

	return vm
}

// sourcePriority is the display precedence of the stream sources; the
// non-stream sources sort after them but never contend for the cap.
func sourcePriority(kind models.SourceKind) int {
	switch kind {
	case models.SourcePlex:
		return 0
	case models.SourceJellyfin:
		return 1
	case models.SourceSABnzbd:
		return 2
	default:
		return 3
	}
}

// trackHealth advances one source's rolling failure state.
func (a *Aggregator) trackHealth(snap *models.SourceSnapshot) {
	h := a.health[snap.Source]

	if snap.OK {
		h.ConsecutiveFailures = 0
		h.LastOKAt = snap.CapturedAt
		h.Down = false
	} else {
		h.ConsecutiveFailures++
		h.Down = h.ConsecutiveFailures >= a.cfg.Scheduler.FailureThreshold
	}

	a.health[snap.Source] = h
	metrics.SetSourceDown(string(snap.Source), h.Down)
}

func (a *Aggregator) healthCopy() map[models.SourceKind]models.SourceHealth {
	out := make(map[models.SourceKind]models.SourceHealth, len(a.health))
	for k, v := range a.health {
		out[k] = v
	}
	return out
}

// mergeStreams appends a source's sessions, resolving display names and
// enforcing the dashboard cap. TotalCount keeps counting past the cap so
// the header can show the real number.
func (a *Aggregator) mergeStreams(vm *models.ViewModel, payload models.StreamList) {
	vm.TotalCount += len(payload.Sessions)

	for i := range payload.Sessions {
		if len(vm.Streams) >= models.MaxStreams {
			return
		}
		stream := payload.Sessions[i]
		stream.User = a.resolver.Resolve(stream.RawUser)
		vm.Streams = append(vm.Streams, stream)
	}
}

// mergeQueue normalizes the download titles and caps the visible list.
func (a *Aggregator) mergeQueue(vm *models.ViewModel, payload models.QueueList) {
	vm.QueueTotal = len(payload.Items)
	vm.FreeSpace = payload.FreeSpaceBytes
	vm.TotalSpace = payload.TotalSpaceBytes

	limit := len(payload.Items)
	if limit > models.MaxQueueItems {
		limit = models.MaxQueueItems
	}

	for i := 0; i < limit; i++ {
		item := payload.Items[i]
		item.Title = a.normalizer.Normalize(item.RawTitle)
		vm.Queue = append(vm.Queue, item)
	}
}

// trackOffline pins the moment the primary stream source went down so
// the dashboard can show an outage duration instead of a bare marker.
func (a *Aggregator) trackOffline(vm *models.ViewModel, now time.Time) {
	if vm.PrimaryDown() {
		if a.offlineSince.IsZero() {
			a.offlineSince = now
		}
	} else {
		a.offlineSince = time.Time{}
	}
	vm.OfflineSince = a.offlineSince
}
