// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package models

// Jellyfin REST API models.
// Subset of GET /Sessions consumed by the dashboard.
// API Reference: https://api.jellyfin.org/

// JellyfinSession is one entry from GET /Sessions. Sessions without a
// NowPlayingItem are idle clients and are filtered out by the adapter.
type JellyfinSession struct {
	ID         string `json:"Id"`
	UserName   string `json:"UserName"`
	Client     string `json:"Client"`     // client app name
	DeviceName string `json:"DeviceName"` // device friendly name

	NowPlayingItem  *JellyfinNowPlayingItem  `json:"NowPlayingItem,omitempty"`
	PlayState       *JellyfinPlayState       `json:"PlayState,omitempty"`
	TranscodingInfo *JellyfinTranscodingInfo `json:"TranscodingInfo,omitempty"`
}

// JellyfinNowPlayingItem is the currently playing content.
type JellyfinNowPlayingItem struct {
	ID        string `json:"Id"`
	Name      string `json:"Name"`
	Type      string `json:"Type"`      // "Movie", "Episode", "Audio"
	MediaType string `json:"MediaType"` // "Video", "Audio"

	// Episode fields
	SeriesName        string `json:"SeriesName,omitempty"`
	IndexNumber       int    `json:"IndexNumber,omitempty"`       // episode number
	ParentIndexNumber int    `json:"ParentIndexNumber,omitempty"` // season number

	ProductionYear int `json:"ProductionYear,omitempty"`

	// RunTimeTicks is the duration in ticks (100ns units).
	RunTimeTicks int64 `json:"RunTimeTicks"`
	Bitrate      int   `json:"Bitrate,omitempty"`

	MediaStreams []JellyfinMediaStream `json:"MediaStreams,omitempty"`
}

// JellyfinPlayState is the playback position and pause state.
type JellyfinPlayState struct {
	PositionTicks int64 `json:"PositionTicks"`
	IsPaused      bool  `json:"IsPaused"`
}

// JellyfinTranscodingInfo is present only while transcoding.
type JellyfinTranscodingInfo struct {
	Bitrate int `json:"Bitrate,omitempty"`
	Width   int `json:"Width,omitempty"`
	Height  int `json:"Height,omitempty"`
}

// JellyfinMediaStream is one media stream of the playing item.
type JellyfinMediaStream struct {
	Type   string `json:"Type"` // "Video", "Audio", "Subtitle"
	Height int    `json:"Height,omitempty"`
	Width  int    `json:"Width,omitempty"`
}

// ActiveVideoHeight returns the height of the first video stream, or 0
// when the item carries no video stream metadata.
func (i *JellyfinNowPlayingItem) ActiveVideoHeight() int {
	for idx := range i.MediaStreams {
		if i.MediaStreams[idx].Type == "Video" && i.MediaStreams[idx].Height > 0 {
			return i.MediaStreams[idx].Height
		}
	}
	return 0
}
