// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/streamboard/internal/models"
)

const plexSessionsResponse = `{
  "MediaContainer": {
    "size": 2,
    "Metadata": [
      {
        "sessionKey": "1",
        "type": "episode",
        "title": "Pilot",
        "grandparentTitle": "Some Show: The Revival",
        "parentIndex": 2,
        "index": 5,
        "librarySectionTitle": "TV Shows",
        "viewOffset": 600000,
        "duration": 1200000,
        "User": {"id": 1, "title": "plexuser42"},
        "Player": {"product": "Plex for iOS", "state": "playing", "title": "iPhone"},
        "Media": [{"bitrate": 8000, "videoResolution": "1080"}]
      },
      {
        "sessionKey": "2",
        "type": "movie",
        "title": "Big Film",
        "year": 2021,
        "librarySectionTitle": "Movies",
        "viewOffset": 300000,
        "duration": 6000000,
        "User": {"id": 2, "title": "other"},
        "Player": {"product": "Plex Web", "state": "paused", "title": "Chrome"},
        "TranscodeSession": {"videoDecision": "transcode", "audioDecision": "copy", "bitrate": 4000},
        "Media": [{"bitrate": 20000, "videoResolution": "4k"}]
      }
    ]
  }
}`

func TestPlexClientGetSessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/status/sessions")
		checkStringEqual(t, "token header", r.Header.Get("X-Plex-Token"), "test-token")
		checkStringEqual(t, "accept header", r.Header.Get("Accept"), "application/json")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(plexSessionsResponse))
	}))
	defer server.Close()

	client := NewPlexClient(server.URL+"/", "test-token")
	sessions, err := client.GetSessions(context.Background())
	if err != nil {
		t.Fatalf("GetSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	checkStringEqual(t, "user", sessions[0].User.Title, "plexuser42")
	checkTrue(t, "transcode session on second stream", sessions[1].TranscodeSession != nil)
}

func TestPlexClientGetSessionsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewPlexClient(server.URL, "bad-token")
	if _, err := client.GetSessions(context.Background()); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestPlexClientGetSectionCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/library/sections/3/all")
		checkStringEqual(t, "container size", r.URL.Query().Get("X-Plex-Container-Size"), "0")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MediaContainer": {"size": 0, "totalSize": 1234}}`))
	}))
	defer server.Close()

	client := NewPlexClient(server.URL, "test-token")
	count, err := client.GetSectionCount(context.Background(), "3")
	if err != nil {
		t.Fatalf("GetSectionCount failed: %v", err)
	}
	if count != 1234 {
		t.Errorf("count = %d, want 1234", count)
	}
}

func TestSessionToStreamEpisode(t *testing.T) {
	session := models.PlexSession{
		Type:                "episode",
		Title:               "Pilot",
		GrandparentTitle:    "Some Show: The Revival",
		ParentIndex:         2,
		Index:               5,
		LibrarySectionTitle: "TV Shows",
		ViewOffset:          600000,
		Duration:            1200000,
		User:                &models.PlexSessionUser{Title: "plexuser42"},
		Player:              &models.PlexSessionPlayer{Product: "Plex for iOS", State: "playing"},
		Media:               []models.PlexMedia{{Bitrate: 8000, VideoResolution: "1080"}},
	}

	stream := SessionToStream(&session)

	checkStringEqual(t, "title", stream.Title, "Some Show - S02E05")
	checkStringEqual(t, "raw user", stream.RawUser, "plexuser42")
	checkStringEqual(t, "quality", stream.QualityLabel, "1080p")
	checkStringEqual(t, "bitrate", stream.BitrateLabel, "8.0 Mbps")
	checkStringEqual(t, "player", stream.PlayerLabel, "iOS")
	checkTrue(t, "is episode", stream.IsEpisode)
	checkTrue(t, "not paused", !stream.Paused)
	checkFloatNear(t, "progress", stream.ProgressFraction, 0.5, 1e-9)
}

func TestSessionToStreamMovieTranscode(t *testing.T) {
	session := models.PlexSession{
		Type:             "movie",
		Title:            "Big Film",
		Year:             2021,
		ViewOffset:       300000,
		Duration:         6000000,
		Player:           &models.PlexSessionPlayer{Product: "Plex Web", State: "paused"},
		TranscodeSession: &models.PlexTranscodeSession{Bitrate: 4000},
		Media:            []models.PlexMedia{{Bitrate: 20000, VideoResolution: "4k"}},
	}

	stream := SessionToStream(&session)

	checkStringEqual(t, "title", stream.Title, "Big Film (2021)")
	checkStringEqual(t, "quality", stream.QualityLabel, "4K")
	// Transcode bitrate wins over source media bitrate.
	checkStringEqual(t, "bitrate", stream.BitrateLabel, "4.0 Mbps")
	checkTrue(t, "paused", stream.Paused)
	checkTrue(t, "transcoding", stream.Transcoding)
}

func TestSessionToStreamMissingOptionalFields(t *testing.T) {
	session := models.PlexSession{
		Type:     "movie",
		Title:    "Bare Minimum",
		Duration: 0,
	}

	stream := SessionToStream(&session)

	checkStringEqual(t, "title", stream.Title, "Bare Minimum")
	checkStringEqual(t, "quality", stream.QualityLabel, "")
	checkStringEqual(t, "player", stream.PlayerLabel, "")
	checkFloatNear(t, "progress", stream.ProgressFraction, 0, 1e-9)
}

func TestSessionToStreamTrack(t *testing.T) {
	session := models.PlexSession{
		Type:             "track",
		Title:            "Some Song",
		GrandparentTitle: "Some Artist",
	}

	stream := SessionToStream(&session)
	checkStringEqual(t, "title", stream.Title, "Some Artist - Some Song")
}

func TestPlexResolutionLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4k", "4K"},
		{"1080", "1080p"},
		{"720p", "720p"},
		{"sd", "SD"},
		{"", ""},
	}
	for _, tt := range tests {
		checkStringEqual(t, "resolution "+tt.in, plexResolutionLabel(tt.in), tt.want)
	}
}
