// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package models

// Plex REST API models.
// These structures represent the subset of the Plex Media Server API
// consumed by the dashboard. Plex answers JSON when asked via the
// Accept header; fields not listed here are ignored on decode.
//
// Endpoints:
//   - GET /status/sessions   (active playback sessions)
//   - GET /library/sections  (library sections, used by the count cache)

// PlexSessionsResponse is the top-level response from /status/sessions.
type PlexSessionsResponse struct {
	MediaContainer PlexSessionsContainer `json:"MediaContainer"`
}

// PlexSessionsContainer wraps the active sessions array.
type PlexSessionsContainer struct {
	Size     int           `json:"size"`
	Metadata []PlexSession `json:"Metadata"`
}

// PlexSession is a single active playback session.
type PlexSession struct {
	SessionKey string `json:"sessionKey"`
	Type       string `json:"type"` // "movie", "episode", "track"

	Title            string `json:"title"`
	GrandparentTitle string `json:"grandparentTitle,omitempty"` // show or artist name
	ParentIndex      int    `json:"parentIndex,omitempty"`      // season number
	Index            int    `json:"index,omitempty"`            // episode number
	Year             int    `json:"year,omitempty"`

	LibrarySectionTitle string `json:"librarySectionTitle,omitempty"`

	// Playback position, both in milliseconds.
	ViewOffset int64 `json:"viewOffset"`
	Duration   int64 `json:"duration"`

	User   *PlexSessionUser   `json:"User,omitempty"`
	Player *PlexSessionPlayer `json:"Player,omitempty"`

	// TranscodeSession is nil for direct play.
	TranscodeSession *PlexTranscodeSession `json:"TranscodeSession,omitempty"`

	Media []PlexMedia `json:"Media,omitempty"`
}

// PlexSessionUser is the account watching a session.
type PlexSessionUser struct {
	ID    int    `json:"id"`
	Title string `json:"title"` // username
}

// PlexSessionPlayer is the device/client playing a session.
type PlexSessionPlayer struct {
	Product string `json:"product"` // e.g. "Plex Web", "Plex for iOS"
	State   string `json:"state"`   // "playing", "paused", "buffering"
	Title   string `json:"title"`   // device friendly name
}

// PlexTranscodeSession carries transcode details for a session.
type PlexTranscodeSession struct {
	VideoDecision string `json:"videoDecision"` // "transcode", "copy", "directplay"
	AudioDecision string `json:"audioDecision"`
	Bitrate       int    `json:"bitrate"` // Kbps
}

// PlexMedia is source media information (quality, bitrate).
type PlexMedia struct {
	Bitrate         int    `json:"bitrate"`         // Kbps
	VideoResolution string `json:"videoResolution"` // "4k", "1080", "720", "sd"
	AudioChannels   int    `json:"audioChannels"`
}

// PlexLibrarySectionsResponse is the top-level response from /library/sections.
type PlexLibrarySectionsResponse struct {
	MediaContainer PlexLibrarySectionsContainer `json:"MediaContainer"`
}

// PlexLibrarySectionsContainer wraps the list of library sections.
type PlexLibrarySectionsContainer struct {
	Size      int                  `json:"size"`
	Directory []PlexLibrarySection `json:"Directory,omitempty"`
}

// PlexLibrarySection is one library section (Movies, TV Shows, ...).
type PlexLibrarySection struct {
	Key   string `json:"key"` // used in /library/sections/{key}/all
	Title string `json:"title"`
	Type  string `json:"type"` // "movie", "show", "artist", "photo"
}

// PlexSectionContentResponse is the counting response from
// GET /library/sections/{key}/all?X-Plex-Container-Size=0, which returns
// totalSize without shipping the item list.
type PlexSectionContentResponse struct {
	MediaContainer PlexSectionContentContainer `json:"MediaContainer"`
}

// PlexSectionContentContainer carries the section item totals.
type PlexSectionContentContainer struct {
	Size      int `json:"size"`
	TotalSize int `json:"totalSize"`
}
