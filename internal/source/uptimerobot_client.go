// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

/*
uptimerobot_client.go - UptimeRobot REST API Client

Fetches the monitor's uptime ratios for the 24h/7d/30d windows in one
call via custom_uptime_ratios=1-7-30.

API Reference: https://uptimerobot.com/api/
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

// uptimeRobotAPIURL is the fixed v2 API endpoint.
const uptimeRobotAPIURL = "https://api.uptimerobot.com/v2/getMonitors"

// UptimeRobotClientInterface defines the UptimeRobot API operations
// used by the dashboard.
type UptimeRobotClientInterface interface {
	GetMonitor(ctx context.Context) (*models.UptimeRobotMonitor, error)
}

// Ensure UptimeRobotClient implements UptimeRobotClientInterface
var _ UptimeRobotClientInterface = (*UptimeRobotClient)(nil)

// UptimeRobotClient provides access to the UptimeRobot v2 API.
type UptimeRobotClient struct {
	apiURL     string
	apiKey     string
	monitorID  int64
	httpClient *http.Client
}

// NewUptimeRobotClient creates a new UptimeRobot API client for one
// configured monitor.
func NewUptimeRobotClient(apiKey string, monitorID int64) *UptimeRobotClient {
	return &UptimeRobotClient{
		apiURL:    uptimeRobotAPIURL,
		apiKey:    apiKey,
		monitorID: monitorID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetMonitor retrieves the configured monitor with uptime ratios for
// the three dashboard windows.
func (c *UptimeRobotClient) GetMonitor(ctx context.Context) (*models.UptimeRobotMonitor, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("monitors", strconv.FormatInt(c.monitorID, 10))
	form.Set("custom_uptime_ratios", "1-7-30")
	form.Set("logs", "1")
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uptimerobot request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("uptimerobot getMonitors", resp)
	}

	var parsed models.UptimeRobotResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode uptimerobot response: %w", err)
	}

	if parsed.Stat != "ok" {
		if parsed.Error != nil {
			return nil, fmt.Errorf("uptimerobot api error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
		}
		return nil, fmt.Errorf("uptimerobot api returned stat %q", parsed.Stat)
	}
	if len(parsed.Monitors) == 0 {
		return nil, fmt.Errorf("uptimerobot monitor %d not found", c.monitorID)
	}

	return &parsed.Monitors[0], nil
}

// MonitorToStats converts the monitor's dash-separated uptime ratios
// into the three dashboard windows. DurationUp is derived from the
// ratio over each window length.
func MonitorToStats(m *models.UptimeRobotMonitor) (models.UptimeStats, error) {
	parts := strings.Split(m.CustomUptimeRatio, "-")
	if len(parts) != 3 {
		return models.UptimeStats{}, fmt.Errorf("unexpected uptime ratio %q", m.CustomUptimeRatio)
	}

	windows := [3]time.Duration{24 * time.Hour, 7 * 24 * time.Hour, 30 * 24 * time.Hour}
	out := [3]models.UptimeWindow{}
	for i, p := range parts {
		pct, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.UptimeStats{}, fmt.Errorf("malformed uptime ratio %q: %w", p, err)
		}
		out[i] = models.UptimeWindow{
			Percentage: pct,
			DurationUp: time.Duration(float64(windows[i]) * pct / 100),
		}
	}

	return models.UptimeStats{Day: out[0], Week: out[1], Month: out[2]}, nil
}
