// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

/*
jellyfin_client.go - Jellyfin REST API Client

Provides methods to fetch active session data from a Jellyfin server.

API Reference: https://api.jellyfin.org/
*/

package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamboard/internal/models"
)

// JellyfinClientInterface defines the Jellyfin API operations used by
// the dashboard.
type JellyfinClientInterface interface {
	GetActiveSessions(ctx context.Context) ([]models.JellyfinSession, error)
}

// Ensure JellyfinClient implements JellyfinClientInterface
var _ JellyfinClientInterface = (*JellyfinClient)(nil)

// JellyfinClient provides access to the Jellyfin REST API.
type JellyfinClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewJellyfinClient creates a new Jellyfin API client.
//
// Parameters:
//   - baseURL: Jellyfin server URL (e.g., http://localhost:8096)
//   - apiKey: Jellyfin API key from Admin Dashboard > API Keys
func NewJellyfinClient(baseURL, apiKey string) *JellyfinClient {
	return &JellyfinClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetActiveSessions retrieves sessions with active playback. Idle
// client sessions (no NowPlayingItem) are filtered out.
func (c *JellyfinClient) GetActiveSessions(ctx context.Context) ([]models.JellyfinSession, error) {
	resp, err := c.doRequest(ctx, "/Sessions")
	if err != nil {
		return nil, fmt.Errorf("jellyfin sessions request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jellyfin sessions", resp)
	}

	var sessions []models.JellyfinSession
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin sessions: %w", err)
	}

	active := make([]models.JellyfinSession, 0, len(sessions))
	for i := range sessions {
		if sessions[i].NowPlayingItem != nil {
			active = append(active, sessions[i])
		}
	}

	return active, nil
}

// doRequest performs an HTTP GET request to the Jellyfin API.
func (c *JellyfinClient) doRequest(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("X-Emby-Client", "Streamboard")
	req.Header.Set("X-Emby-Device-Name", "Streamboard")
	req.Header.Set("X-Emby-Device-Id", "streamboard")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// JellyfinSessionToStream converts a Jellyfin session to the unified
// stream model. The caller guarantees NowPlayingItem is non-nil.
func JellyfinSessionToStream(s *models.JellyfinSession) models.StreamSession {
	item := s.NowPlayingItem

	stream := models.StreamSession{
		Source:       models.SourceJellyfin,
		RawUser:      s.UserName,
		Title:        formatJellyfinTitle(item),
		SectionTitle: item.MediaType,
		MediaType:    strings.ToLower(item.Type),
		IsEpisode:    item.Type == "Episode",
		PlayerLabel:  jellyfinPlayerLabel(s),
		Transcoding:  s.TranscodingInfo != nil,
	}

	// Ticks are 100ns units; the dashboard works in milliseconds.
	stream.DurationMillis = item.RunTimeTicks / 10_000
	if s.PlayState != nil {
		stream.Paused = s.PlayState.IsPaused
		stream.ElapsedMillis = s.PlayState.PositionTicks / 10_000
		if item.RunTimeTicks > 0 {
			stream.ProgressFraction = clamp01(float64(s.PlayState.PositionTicks) / float64(item.RunTimeTicks))
		}
	}

	if height := item.ActiveVideoHeight(); height > 0 {
		stream.QualityLabel = jellyfinResolutionLabel(height)
	}

	switch {
	case s.TranscodingInfo != nil && s.TranscodingInfo.Bitrate > 0:
		stream.BitrateLabel = fmt.Sprintf("%.1f Mbps", float64(s.TranscodingInfo.Bitrate)/1_000_000)
	case item.Bitrate > 0:
		stream.BitrateLabel = fmt.Sprintf("%.1f Mbps", float64(item.Bitrate)/1_000_000)
	}

	return stream
}

// formatJellyfinTitle formats the content title by media type, matching
// the Plex formatting so merged streams read uniformly.
func formatJellyfinTitle(item *models.JellyfinNowPlayingItem) string {
	if item.Type == "Episode" {
		series := trimSeriesTitle(item.SeriesName)
		if series == "" {
			series = "Unknown Show"
		}
		return fmt.Sprintf("%s - S%02dE%02d", series, item.ParentIndexNumber, item.IndexNumber)
	}

	if item.ProductionYear > 0 {
		return fmt.Sprintf("%s (%d)", item.Name, item.ProductionYear)
	}
	return item.Name
}

// jellyfinResolutionLabel maps a video stream height to a display label.
func jellyfinResolutionLabel(height int) string {
	if height >= 2160 {
		return "4K"
	}
	return fmt.Sprintf("%dp", height)
}

// jellyfinPlayerLabel prefers the client app name, falling back to the
// device name, and tags the source so mixed dashboards stay readable.
func jellyfinPlayerLabel(s *models.JellyfinSession) string {
	label := s.Client
	if label == "" {
		label = s.DeviceName
	}
	if label == "" {
		return ""
	}
	return label + " (JF)"
}
