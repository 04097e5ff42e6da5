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
	"time"

	"github.com/tomtom215/streamboard/internal/models"
)

func TestUptimeRobotClientGetMonitor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		checkStringEqual(t, "api_key", r.PostFormValue("api_key"), "ur-key")
		checkStringEqual(t, "monitors", r.PostFormValue("monitors"), "777")
		checkStringEqual(t, "ratios", r.PostFormValue("custom_uptime_ratios"), "1-7-30")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "stat": "ok",
  "monitors": [
    {
      "id": 777,
      "friendly_name": "Media Server",
      "status": 2,
      "custom_uptime_ratio": "99.981-99.997-99.992",
      "logs": [{"type": 1, "datetime": 1756000000, "duration": 120}]
    }
  ]
}`))
	}))
	defer server.Close()

	client := NewUptimeRobotClient("ur-key", 777)
	client.apiURL = server.URL

	monitor, err := client.GetMonitor(context.Background())
	if err != nil {
		t.Fatalf("GetMonitor failed: %v", err)
	}
	checkStringEqual(t, "name", monitor.Name, "Media Server")
	if monitor.Status != 2 {
		t.Errorf("status = %d, want 2", monitor.Status)
	}
	checkStringEqual(t, "ratio", monitor.CustomUptimeRatio, "99.981-99.997-99.992")
}

func TestUptimeRobotClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stat": "fail", "error": {"type": "invalid_parameter", "message": "api_key is wrong"}}`))
	}))
	defer server.Close()

	client := NewUptimeRobotClient("bad-key", 777)
	client.apiURL = server.URL

	if _, err := client.GetMonitor(context.Background()); err == nil {
		t.Fatal("expected error for stat=fail response")
	}
}

func TestUptimeRobotClientMonitorMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stat": "ok", "monitors": []}`))
	}))
	defer server.Close()

	client := NewUptimeRobotClient("ur-key", 404404)
	client.apiURL = server.URL

	if _, err := client.GetMonitor(context.Background()); err == nil {
		t.Fatal("expected error for empty monitor list")
	}
}

func TestMonitorToStats(t *testing.T) {
	monitor := models.UptimeRobotMonitor{
		CustomUptimeRatio: "100-99.5-98",
	}

	stats, err := MonitorToStats(&monitor)
	if err != nil {
		t.Fatalf("MonitorToStats failed: %v", err)
	}

	checkFloatNear(t, "day pct", stats.Day.Percentage, 100, 1e-9)
	checkFloatNear(t, "week pct", stats.Week.Percentage, 99.5, 1e-9)
	checkFloatNear(t, "month pct", stats.Month.Percentage, 98, 1e-9)

	if stats.Day.DurationUp != 24*time.Hour {
		t.Errorf("day up = %v, want 24h", stats.Day.DurationUp)
	}
	wantMonth := time.Duration(float64(30*24*time.Hour) * 0.98)
	if stats.Month.DurationUp != wantMonth {
		t.Errorf("month up = %v, want %v", stats.Month.DurationUp, wantMonth)
	}
}

func TestMonitorToStatsMalformedRatio(t *testing.T) {
	tests := []string{"", "99.9", "99-98", "a-b-c"}
	for _, ratio := range tests {
		monitor := models.UptimeRobotMonitor{CustomUptimeRatio: ratio}
		if _, err := MonitorToStats(&monitor); err == nil {
			t.Errorf("ratio %q: expected error", ratio)
		}
	}
}
