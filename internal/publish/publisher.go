// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package publish writes rendered output to Discord. The dashboard is a
// single message edited in place; the presence line is the channel
// topic. Publishing diffs against the durable artifact state so an
// unchanged render costs no API call, and a failed write leaves the
// stored state untouched for the next tick to retry.
package publish

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/streamboard/internal/config"
	"github.com/tomtom215/streamboard/internal/logging"
	"github.com/tomtom215/streamboard/internal/metrics"
	"github.com/tomtom215/streamboard/internal/render"
	"github.com/tomtom215/streamboard/internal/state"
)

// Publisher pushes rendered dashboard states to Discord.
type Publisher struct {
	client    DiscordClientInterface
	store     *state.Store
	channelID string

	// presenceLimiter spaces out topic edits; Discord allows roughly
	// two per ten minutes per channel.
	presenceLimiter *rate.Limiter
}

// New builds a publisher over the given sink client and state store.
func New(client DiscordClientInterface, store *state.Store, cfg *config.Config) *Publisher {
	interval := cfg.Presence.MinInterval
	if interval <= 0 {
		interval = time.Nanosecond
	}

	return &Publisher{
		client:          client,
		store:           store,
		channelID:       cfg.Discord.ChannelID,
		presenceLimiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Publish writes one rendered output. The dashboard message is created
// on first run, edited when the content hash changed, recreated when it
// was deleted, and skipped when nothing changed. Presence follows the
// same diffing independently.
func (p *Publisher) Publish(ctx context.Context, out render.Output) error {
	current, err := p.store.Load()
	if errors.Is(err, state.ErrNotFound) {
		current = &state.ArtifactState{ChannelID: p.channelID}
	} else if err != nil {
		return err
	}

	// A stored message from another channel is stale configuration;
	// start over rather than editing a message we can't see.
	if current.ChannelID != p.channelID {
		current = &state.ArtifactState{ChannelID: p.channelID}
	}

	next := *current
	messageErr := p.publishMessage(ctx, current, &next, out)
	p.publishPresence(ctx, &next, out)

	if next != *current {
		if err := p.store.Save(&next); err != nil {
			// Stored state still points at the previous publish; the
			// next tick will redo this write.
			return err
		}
	}

	return messageErr
}

// publishMessage diffs and writes the dashboard embed, recording the
// outcome in next on success only.
func (p *Publisher) publishMessage(ctx context.Context, current *state.ArtifactState, next *state.ArtifactState, out render.Output) error {
	if current.MessageID != "" && current.ContentHash == out.Hash {
		metrics.ArtifactPublishes.WithLabelValues("skipped").Inc()
		return nil
	}

	payload := MessagePayload{Embeds: []render.Embed{out.Embed}}

	if current.MessageID != "" {
		err := p.client.EditMessage(ctx, p.channelID, current.MessageID, payload)
		switch {
		case err == nil:
			metrics.ArtifactPublishes.WithLabelValues("updated").Inc()
			next.ContentHash = out.Hash
			return nil
		case errors.Is(err, ErrMessageNotFound):
			logging.Warn().Str("message_id", current.MessageID).Msg("Dashboard message deleted, recreating")
		default:
			metrics.ArtifactPublishes.WithLabelValues("error").Inc()
			return err
		}
	}

	messageID, err := p.client.CreateMessage(ctx, p.channelID, payload)
	if err != nil {
		metrics.ArtifactPublishes.WithLabelValues("error").Inc()
		return err
	}

	metrics.ArtifactPublishes.WithLabelValues("created").Inc()
	next.MessageID = messageID
	next.ContentHash = out.Hash
	return nil
}

// publishPresence pushes the presence line when it changed and the
// limiter allows another topic edit. Presence failures are logged but
// never fail the tick; the dashboard message is the primary artifact.
func (p *Publisher) publishPresence(ctx context.Context, next *state.ArtifactState, out render.Output) {
	if out.Presence == next.LastPresence {
		return
	}
	if !p.presenceLimiter.Allow() {
		metrics.PresencePushes.WithLabelValues("rate_limited").Inc()
		return
	}

	err := p.client.SetChannelTopic(ctx, p.channelID, out.Presence)
	switch {
	case err == nil:
		metrics.PresencePushes.WithLabelValues("ok").Inc()
		next.LastPresence = out.Presence
		next.LastPresenceAt = time.Now()
	case errors.Is(err, ErrRateLimited):
		metrics.PresencePushes.WithLabelValues("rate_limited").Inc()
	default:
		metrics.PresencePushes.WithLabelValues("error").Inc()
		logging.Warn().Err(err).Msg("Presence update failed")
	}
}
