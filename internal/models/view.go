// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package models

import (
	"time"
)

// MaxStreams caps the number of stream sessions shown on the dashboard.
// Overflow is dropped lowest-priority first (source declared order, then
// arrival order within a source).
const MaxStreams = 8

// MaxQueueItems caps the number of download queue entries shown on the
// dashboard. The remainder is summarized as a count.
const MaxQueueItems = 4

// StreamSession is one active playback session, normalized from either
// stream source. Sessions carry no identity across ticks; the synthetic
// ordering key is (source, user, title) within a single tick only.
type StreamSession struct {
	Source           SourceKind `json:"source"`
	RawUser          string     `json:"raw_user"`
	User             string     `json:"user"` // display name after resolution
	Title            string     `json:"title"`
	SectionTitle     string     `json:"section_title"` // library section or media type
	MediaType        string     `json:"media_type"`    // movie, episode, track
	IsEpisode        bool       `json:"is_episode"`
	Paused           bool       `json:"paused"`
	ProgressFraction float64    `json:"progress_fraction"` // clamped to [0,1]
	ElapsedMillis    int64      `json:"elapsed_ms"`
	DurationMillis   int64      `json:"duration_ms"`
	QualityLabel     string     `json:"quality_label,omitempty"` // optional upstream field
	BitrateLabel     string     `json:"bitrate_label,omitempty"`
	PlayerLabel      string     `json:"player_label,omitempty"` // optional upstream field
	Transcoding      bool       `json:"transcoding"`
}

// QueueItem is one download queue entry after title normalization.
type QueueItem struct {
	RawTitle         string  `json:"raw_title"`
	Title            string  `json:"title"`
	SizeBytes        int64   `json:"size_bytes"`
	ProgressFraction float64 `json:"progress_fraction"`
	SpeedBytesPerSec int64   `json:"speed_bytes_per_sec"`
}

// UptimeWindow is one monitored uptime window (24h, 7d, 30d).
type UptimeWindow struct {
	Percentage float64       `json:"percentage"` // 0..100
	DurationUp time.Duration `json:"duration_up"`
}

// UptimeStats holds the three uptime windows reported by the monitor.
type UptimeStats struct {
	Day   UptimeWindow `json:"day"`
	Week  UptimeWindow `json:"week"`
	Month UptimeWindow `json:"month"`
}

// SourceHealth is the rolling per-source failure state. It distinguishes
// "no data" (healthy source, empty result) from "source down" (failures
// at or above the configured threshold).
type SourceHealth struct {
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastOKAt            time.Time `json:"last_ok_at,omitzero"`
	Down                bool      `json:"down"`
}

// SectionStats is one library section's cached item counts merged with
// its display configuration.
type SectionStats struct {
	SectionTitle string `json:"section_title"`
	DisplayName  string `json:"display_name"`
	Emoji        string `json:"emoji"`
	Count        int    `json:"count"`
	ShowEpisodes bool   `json:"show_episodes"`
	Episodes     int    `json:"episodes"`
}

// ViewModel is the aggregation root rebuilt fresh on every tick. Both
// the dashboard content and the presence line derive from it; nothing
// mutates it after the aggregator returns it.
type ViewModel struct {
	Streams    []StreamSession             `json:"streams"` // capped at MaxStreams
	TotalCount int                         `json:"total_stream_count"`
	Queue      []QueueItem                 `json:"queue"`
	QueueTotal int                         `json:"queue_total"`
	FreeSpace  int64                       `json:"free_space_bytes"`
	TotalSpace int64                       `json:"total_space_bytes"`
	Uptime     *UptimeStats                `json:"uptime,omitempty"` // nil unless the last fetch succeeded
	Sections   []SectionStats              `json:"sections"`
	Health     map[SourceKind]SourceHealth `json:"source_health"`
	// OfflineSince is set while the primary stream source is down.
	OfflineSince time.Time `json:"offline_since,omitzero"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// PrimaryDown reports whether the primary stream source is currently in
// the "down" display state.
func (vm *ViewModel) PrimaryDown() bool {
	return vm.Health[SourcePlex].Down
}
