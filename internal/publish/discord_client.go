// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

/*
discord_client.go - Discord REST API Client

Covers the three calls the dashboard needs: create a channel message,
edit it in place, and set the channel topic (the presence line).

API Reference: https://discord.com/developers/docs/resources/channel
*/

package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/streamboard/internal/render"
)

const discordAPIBase = "https://discord.com/api/v10"

// ErrMessageNotFound is returned when the dashboard message was deleted
// out from under the bot; the publisher recreates it.
var ErrMessageNotFound = errors.New("discord message not found")

// ErrRateLimited is returned on a 429 response. Topic edits hit this
// routinely; the caller backs off until the next tick.
var ErrRateLimited = errors.New("discord rate limited")

// MessagePayload is the body for message create/edit calls.
type MessagePayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []render.Embed `json:"embeds"`

	// Nonce deduplicates creates: if a create is retried after a
	// network error, Discord returns the first message instead of
	// posting a second dashboard.
	Nonce        string `json:"nonce,omitempty"`
	EnforceNonce bool   `json:"enforce_nonce,omitempty"`
}

// DiscordClientInterface defines the Discord operations the publisher
// consumes.
type DiscordClientInterface interface {
	CreateMessage(ctx context.Context, channelID string, payload MessagePayload) (string, error)
	EditMessage(ctx context.Context, channelID, messageID string, payload MessagePayload) error
	SetChannelTopic(ctx context.Context, channelID, topic string) error
}

// Ensure DiscordClient implements DiscordClientInterface
var _ DiscordClientInterface = (*DiscordClient)(nil)

// DiscordClient provides access to the Discord REST API with a bot
// token.
type DiscordClient struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
}

// NewDiscordClient creates a new Discord REST client.
func NewDiscordClient(botToken string) *DiscordClient {
	return &DiscordClient{
		baseURL:  discordAPIBase,
		botToken: botToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateMessage posts a new message and returns its ID.
func (c *DiscordClient) CreateMessage(ctx context.Context, channelID string, payload MessagePayload) (string, error) {
	endpoint := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)

	if payload.Nonce == "" {
		payload.Nonce = uuid.NewString()
		payload.EnforceNonce = true
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &created); err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}
	return created.ID, nil
}

// EditMessage replaces the content of an existing message.
func (c *DiscordClient) EditMessage(ctx context.Context, channelID, messageID string, payload MessagePayload) error {
	endpoint := fmt.Sprintf("%s/channels/%s/messages/%s", c.baseURL, channelID, messageID)

	if err := c.doJSON(ctx, http.MethodPatch, endpoint, payload, nil); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// SetChannelTopic updates the channel topic. Discord throttles this
// aggressively (twice per ten minutes per channel).
func (c *DiscordClient) SetChannelTopic(ctx context.Context, channelID, topic string) error {
	endpoint := fmt.Sprintf("%s/channels/%s", c.baseURL, channelID)

	body := struct {
		Topic string `json:"topic"`
	}{Topic: topic}

	if err := c.doJSON(ctx, http.MethodPatch, endpoint, body, nil); err != nil {
		return fmt.Errorf("set channel topic: %w", err)
	}
	return nil
}

// doJSON performs one authenticated JSON request and decodes the
// response into out when non-nil.
func (c *DiscordClient) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrMessageNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord returned status %d: %s", resp.StatusCode, string(detail))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode discord response: %w", err)
	}
	return nil
}
