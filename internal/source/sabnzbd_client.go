// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

/*
sabnzbd_client.go - SABnzbd REST API Client

Provides the queue listing used for the downloads section. SABnzbd
reports sizes in megabytes and speeds in KB/s, both as strings; the
mapping below converts everything to bytes.

API Reference: https://sabnzbd.org/wiki/advanced/api
*/

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamboard/internal/models"
)

// SABnzbdClientInterface defines the SABnzbd API operations used by
// the dashboard.
type SABnzbdClientInterface interface {
	GetQueue(ctx context.Context) (*models.SABnzbdQueue, error)
}

// Ensure SABnzbdClient implements SABnzbdClientInterface
var _ SABnzbdClientInterface = (*SABnzbdClient)(nil)

// SABnzbdClient provides access to the SABnzbd REST API.
type SABnzbdClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSABnzbdClient creates a new SABnzbd API client.
func NewSABnzbdClient(baseURL, apiKey string) *SABnzbdClient {
	return &SABnzbdClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetQueue retrieves the current download queue.
func (c *SABnzbdClient) GetQueue(ctx context.Context) (*models.SABnzbdQueue, error) {
	params := url.Values{}
	params.Set("mode", "queue")
	params.Set("output", "json")
	params.Set("apikey", c.apiKey)

	endpoint := c.baseURL + "/api?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sabnzbd queue request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("sabnzbd queue", resp)
	}

	var queue models.SABnzbdQueueResponse
	if err := json.NewDecoder(resp.Body).Decode(&queue); err != nil {
		return nil, fmt.Errorf("failed to decode sabnzbd queue: %w", err)
	}

	return &queue.Queue, nil
}

// QueueToList converts the raw SABnzbd queue into the unified queue
// payload. The normalizer runs later in the aggregator; RawTitle keeps
// the full release name.
func QueueToList(q *models.SABnzbdQueue) models.QueueList {
	speed := int64(parseFloatField(q.KBPerSec) * 1024)

	items := make([]models.QueueItem, 0, len(q.Slots))
	for i := range q.Slots {
		slot := &q.Slots[i]

		item := models.QueueItem{
			RawTitle:         slot.Filename,
			SizeBytes:        int64(parseFloatField(slot.MB) * 1024 * 1024),
			ProgressFraction: clamp01(parseFloatField(slot.Percentage) / 100),
		}
		// SABnzbd reports one global transfer rate; attribute it to the
		// slot actually downloading.
		if strings.EqualFold(slot.Status, "Downloading") {
			item.SpeedBytesPerSec = speed
		}

		items = append(items, item)
	}

	return models.QueueList{
		Items:           items,
		FreeSpaceBytes:  int64(parseFloatField(q.DiskSpace1) * 1024 * 1024 * 1024),
		TotalSpaceBytes: int64(parseFloatField(q.DiskSpaceTotal) * 1024 * 1024 * 1024),
	}
}

// parseFloatField parses SABnzbd's stringly-typed numeric fields;
// malformed or empty values count as zero rather than failing the
// whole snapshot.
func parseFloatField(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
