// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

/*
plex_client.go - Plex Media Server REST API Client

Provides methods to fetch active sessions and library sections. Plex
answers XML by default; every request here sends Accept:
application/json to get the JSON representation instead.
*/

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamboard/internal/models"
)

// PlexClientInterface defines the Plex API operations used by the
// dashboard. The session adapter and the library cache both consume it.
type PlexClientInterface interface {
	GetSessions(ctx context.Context) ([]models.PlexSession, error)
	GetLibrarySections(ctx context.Context) ([]models.PlexLibrarySection, error)
	GetSectionCount(ctx context.Context, sectionKey string) (int, error)
	GetSectionEpisodeCount(ctx context.Context, sectionKey string) (int, error)
}

// Ensure PlexClient implements PlexClientInterface
var _ PlexClientInterface = (*PlexClient)(nil)

// PlexClient provides access to the Plex Media Server REST API.
type PlexClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewPlexClient creates a new Plex API client.
//
// Parameters:
//   - baseURL: Plex server URL (e.g., http://localhost:32400)
//   - token: X-Plex-Token value
func NewPlexClient(baseURL, token string) *PlexClient {
	return &PlexClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetSessions retrieves all active playback sessions.
func (c *PlexClient) GetSessions(ctx context.Context) ([]models.PlexSession, error) {
	resp, err := c.doRequest(ctx, "/status/sessions")
	if err != nil {
		return nil, fmt.Errorf("plex sessions request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("plex sessions", resp)
	}

	var sessions models.PlexSessionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("failed to decode plex sessions: %w", err)
	}

	return sessions.MediaContainer.Metadata, nil
}

// GetLibrarySections retrieves all library sections.
func (c *PlexClient) GetLibrarySections(ctx context.Context) ([]models.PlexLibrarySection, error) {
	resp, err := c.doRequest(ctx, "/library/sections")
	if err != nil {
		return nil, fmt.Errorf("plex sections request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("plex sections", resp)
	}

	var sections models.PlexLibrarySectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&sections); err != nil {
		return nil, fmt.Errorf("failed to decode plex sections: %w", err)
	}

	return sections.MediaContainer.Directory, nil
}

// GetSectionCount retrieves the item count of one library section.
// X-Plex-Container-Size=0 makes Plex return the totals without the
// item list itself.
func (c *PlexClient) GetSectionCount(ctx context.Context, sectionKey string) (int, error) {
	endpoint := fmt.Sprintf("/library/sections/%s/all?X-Plex-Container-Start=0&X-Plex-Container-Size=0", sectionKey)
	return c.sectionTotal(ctx, endpoint)
}

// GetSectionEpisodeCount retrieves the episode count of a show section
// via the type=4 (episode) filter.
func (c *PlexClient) GetSectionEpisodeCount(ctx context.Context, sectionKey string) (int, error) {
	endpoint := fmt.Sprintf("/library/sections/%s/all?type=4&X-Plex-Container-Start=0&X-Plex-Container-Size=0", sectionKey)
	return c.sectionTotal(ctx, endpoint)
}

func (c *PlexClient) sectionTotal(ctx context.Context, endpoint string) (int, error) {
	resp, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return 0, fmt.Errorf("plex section count request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, statusError("plex section count", resp)
	}

	var content models.PlexSectionContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return 0, fmt.Errorf("failed to decode plex section count: %w", err)
	}

	// Older servers omit totalSize when the container is empty.
	if content.MediaContainer.TotalSize > 0 {
		return content.MediaContainer.TotalSize, nil
	}
	return content.MediaContainer.Size, nil
}

// doRequest performs an HTTP GET request to the Plex API.
func (c *PlexClient) doRequest(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", "streamboard")
	req.Header.Set("X-Plex-Product", "Streamboard")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// statusError builds the error for a non-200 upstream response,
// including a bounded amount of response body for diagnosis.
func statusError(operation string, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body)", operation, resp.StatusCode)
	}
	return fmt.Errorf("%s returned status %d: %s", operation, resp.StatusCode, string(body))
}

// SessionToStream converts a Plex session to the unified stream model.
// Resolver and normalizer run later in the aggregator; RawUser carries
// the unmapped account name.
func SessionToStream(s *models.PlexSession) models.StreamSession {
	stream := models.StreamSession{
		Source:         models.SourcePlex,
		Title:          formatPlexTitle(s),
		SectionTitle:   s.LibrarySectionTitle,
		MediaType:      s.Type,
		IsEpisode:      s.Type == "episode",
		ElapsedMillis:  s.ViewOffset,
		DurationMillis: s.Duration,
		Transcoding:    s.TranscodeSession != nil,
	}

	if s.User != nil {
		stream.RawUser = s.User.Title
	}
	if s.Player != nil {
		stream.Paused = s.Player.State == "paused"
		stream.PlayerLabel = playerProduct(s.Player.Product)
	}
	if s.Duration > 0 {
		stream.ProgressFraction = clamp01(float64(s.ViewOffset) / float64(s.Duration))
	}

	// Quality and bitrate are optional upstream; absence is rendered as
	// a placeholder, not treated as an error.
	if len(s.Media) > 0 {
		stream.QualityLabel = plexResolutionLabel(s.Media[0].VideoResolution)
		if s.Media[0].Bitrate > 0 {
			stream.BitrateLabel = fmt.Sprintf("%.1f Mbps", float64(s.Media[0].Bitrate)/1000)
		}
	}
	if s.TranscodeSession != nil && s.TranscodeSession.Bitrate > 0 {
		stream.BitrateLabel = fmt.Sprintf("%.1f Mbps", float64(s.TranscodeSession.Bitrate)/1000)
	}

	return stream
}

// formatPlexTitle formats the content title by media type: tracks as
// "Artist - Track", episodes as "Show - SxxEyy", movies as "Title (Year)".
func formatPlexTitle(s *models.PlexSession) string {
	switch {
	case s.Type == "track":
		artist := s.GrandparentTitle
		if artist == "" {
			artist = "Unknown Artist"
		}
		return artist + " - " + s.Title
	case s.GrandparentTitle != "":
		series := trimSeriesTitle(s.GrandparentTitle)
		if s.ParentIndex > 0 || s.Index > 0 {
			return fmt.Sprintf("%s - S%02dE%02d", series, s.ParentIndex, s.Index)
		}
		return series
	case s.Year > 0:
		return fmt.Sprintf("%s (%d)", s.Title, s.Year)
	default:
		return s.Title
	}
}

// plexResolutionLabel maps Plex's videoResolution values to a display
// label. Unknown or absent values yield "" and render as a placeholder.
func plexResolutionLabel(resolution string) string {
	switch strings.ToLower(resolution) {
	case "":
		return ""
	case "4k":
		return "4K"
	case "sd":
		return "SD"
	default:
		if strings.HasSuffix(resolution, "p") {
			return resolution
		}
		return resolution + "p"
	}
}

// playerProduct cleans up Plex client product names for display.
func playerProduct(product string) string {
	product = strings.ReplaceAll(product, "Plex for ", "")
	product = strings.ReplaceAll(product, "Infuse-Library", "Infuse")
	return product
}

// trimSeriesTitle cuts a series title at the first ":" or "-" so long
// subtitle variants collapse to the base show name.
func trimSeriesTitle(title string) string {
	if idx := strings.IndexAny(title, ":-"); idx >= 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

// clamp01 bounds a fraction to [0,1]; upstream offsets occasionally
// overshoot the reported duration.
func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
