// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package publish

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamboard/internal/render"
)

func testDiscordClient(server *httptest.Server) *DiscordClient {
	client := NewDiscordClient("bot-token")
	client.baseURL = server.URL
	return client
}

func TestCreateMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/channels/123/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bot bot-token" {
			t.Errorf("auth = %q", got)
		}

		body, _ := io.ReadAll(r.Body)
		var payload MessagePayload
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if len(payload.Embeds) != 1 || payload.Embeds[0].Title != "Media Dashboard" {
			t.Errorf("payload = %+v", payload)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "999"}`))
	}))
	defer server.Close()

	client := testDiscordClient(server)
	id, err := client.CreateMessage(context.Background(), "123", MessagePayload{
		Embeds: []render.Embed{{Title: "Media Dashboard"}},
	})
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if id != "999" {
		t.Errorf("id = %q, want 999", id)
	}
}

func TestEditMessageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Unknown Message", "code": 10008}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := testDiscordClient(server)
	err := client.EditMessage(context.Background(), "123", "999", MessagePayload{})
	if !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("err = %v, want ErrMessageNotFound", err)
	}
}

func TestSetChannelTopic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/channels/123" {
			t.Errorf("path = %s", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Topic string `json:"topic"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if payload.Topic != "2 active Streams 🟢" {
			t.Errorf("topic = %q", payload.Topic)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "123"}`))
	}))
	defer server.Close()

	client := testDiscordClient(server)
	if err := client.SetChannelTopic(context.Background(), "123", "2 active Streams 🟢"); err != nil {
		t.Fatalf("SetChannelTopic failed: %v", err)
	}
}

func TestSetChannelTopicRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "You are being rate limited.", "retry_after": 64.5}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testDiscordClient(server)
	err := client.SetChannelTopic(context.Background(), "123", "topic")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}
