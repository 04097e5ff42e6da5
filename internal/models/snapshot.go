// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package models

import (
	"time"
)

// SourceKind identifies one of the polled upstream services.
type SourceKind string

// Known source kinds. Plex is the primary stream source; everything else
// is optional and enabled only when credentials are configured.
const (
	SourcePlex        SourceKind = "plex"
	SourceJellyfin    SourceKind = "jellyfin"
	SourceSABnzbd     SourceKind = "sabnzbd"
	SourceUptimeRobot SourceKind = "uptimerobot"
)

// SnapshotPayload is the tagged variant carried by a SourceSnapshot.
// Exactly one concrete payload type exists per source family, and the
// aggregator switches on the concrete type exhaustively.
type SnapshotPayload interface {
	isSnapshotPayload()
}

// StreamList is the payload of a stream source snapshot (Plex, Jellyfin).
type StreamList struct {
	Sessions []StreamSession
}

// QueueList is the payload of a download queue snapshot (SABnzbd).
type QueueList struct {
	Items []QueueItem

	// Disk space reported alongside the queue, in bytes.
	FreeSpaceBytes  int64
	TotalSpaceBytes int64
}

// UptimeReport is the payload of an uptime monitor snapshot (UptimeRobot).
type UptimeReport struct {
	Stats UptimeStats
}

func (StreamList) isSnapshotPayload()   {}
func (QueueList) isSnapshotPayload()    {}
func (UptimeReport) isSnapshotPayload() {}

// SourceSnapshot is one source's fetched data for a single tick.
// It is immutable once produced: the scheduler owns it for the duration
// of the tick that produced it, then the aggregator consumes it.
//
// A failed fetch never escapes an adapter as an error; it is captured
// here with OK=false and the cause in Err. Payload is nil iff OK=false.
type SourceSnapshot struct {
	Source     SourceKind
	CapturedAt time.Time
	OK         bool
	Payload    SnapshotPayload
	Err        error
}

// FailedSnapshot builds the snapshot recorded when a fetch fails or
// times out. The scheduler synthesizes these for sources that miss
// their per-source deadline so a slow source never blocks the tick.
func FailedSnapshot(source SourceKind, at time.Time, err error) SourceSnapshot {
	return SourceSnapshot{
		Source:     source,
		CapturedAt: at,
		OK:         false,
		Err:        err,
	}
}
