// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package models

// UptimeRobot REST API models.
// Subset of POST /v2/getMonitors consumed by the dashboard.
// API Reference: https://uptimerobot.com/api/
//
// The monitor is queried with custom_uptime_ratios=1-7-30 so a single
// call yields all three dashboard windows.

// UptimeRobotResponse is the top-level response from getMonitors.
type UptimeRobotResponse struct {
	Stat     string               `json:"stat"` // "ok" or "fail"
	Error    *UptimeRobotError    `json:"error,omitempty"`
	Monitors []UptimeRobotMonitor `json:"monitors,omitempty"`
}

// UptimeRobotError describes an API-level failure (stat=fail).
type UptimeRobotError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// UptimeRobotMonitor is one monitored endpoint.
type UptimeRobotMonitor struct {
	ID     int64  `json:"id"`
	Name   string `json:"friendly_name"`
	Status int    `json:"status"` // 2 = up, 8/9 = down

	// CustomUptimeRatio is dash-separated percentages matching the
	// requested windows, e.g. "99.981-99.997-99.992".
	CustomUptimeRatio string `json:"custom_uptime_ratio"`

	// Logs carry state transitions; the most recent "down" entry gives
	// the last outage timestamp.
	Logs []UptimeRobotLog `json:"logs,omitempty"`
}

// UptimeRobotLog is one monitor state transition.
type UptimeRobotLog struct {
	Type     int   `json:"type"` // 1 = down, 2 = up
	Datetime int64 `json:"datetime"`
	Duration int64 `json:"duration"` // seconds
}
