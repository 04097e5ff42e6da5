// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package main is the entry point for the Streamboard server.
//
// Streamboard aggregates active streams (Plex, optionally Jellyfin),
// the SABnzbd download queue, and UptimeRobot availability into a
// single Discord dashboard message that is edited in place on every
// refresh, plus a short presence line published as the channel topic.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config.yaml (Koanf v2)
//  2. Logging: zerolog, configured from LOG_LEVEL / LOG_FORMAT
//  3. State store: BadgerDB holding the published-message bookkeeping
//  4. Source adapters: one per enabled integration, circuit-broken
//  5. Pipeline: library cache, aggregator, renderer, publisher
//  6. Supervision tree: scheduler and ops HTTP server under suture
//
// # Configuration
//
// Plex and Discord settings are required; everything else is optional
// and enabled by the presence of its credentials:
//
//	export PLEX_URL=http://localhost:32400
//	export PLEX_TOKEN=your-plex-token
//	export DISCORD_BOT_TOKEN=your-bot-token
//	export DISCORD_CHANNEL_ID=123456789
//	export JELLYFIN_URL=http://localhost:8096      # optional
//	export JELLYFIN_API_KEY=your-jellyfin-api-key  # optional
//	export SABNZBD_URL=http://localhost:8080       # optional
//	export SABNZBD_API_KEY=your-sabnzbd-api-key    # optional
//	export UPTIMEROBOT_API_KEY=your-api-key        # optional
//	export UPTIMEROBOT_MONITOR_ID=123456789        # optional
//	./streamboard
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the scheduler finishes
// its current tick, the HTTP server drains, and the state store closes.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/streamboard/internal/api"
	"github.com/tomtom215/streamboard/internal/config"
	"github.com/tomtom215/streamboard/internal/library"
	"github.com/tomtom215/streamboard/internal/logging"
	"github.com/tomtom215/streamboard/internal/publish"
	"github.com/tomtom215/streamboard/internal/render"
	"github.com/tomtom215/streamboard/internal/resolve"
	"github.com/tomtom215/streamboard/internal/scheduler"
	"github.com/tomtom215/streamboard/internal/source"
	"github.com/tomtom215/streamboard/internal/state"
	"github.com/tomtom215/streamboard/internal/supervisor"
	"github.com/tomtom215/streamboard/internal/titles"
	"github.com/tomtom215/streamboard/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config errors are fatal at startup only; once running, source
		// outages degrade the dashboard instead of stopping the process.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Bool("jellyfin", cfg.Jellyfin.Enabled).
		Bool("sabnzbd", cfg.SABnzbd.Enabled).
		Bool("uptimerobot", cfg.UptimeRobot.Enabled).
		Msg("Configuration loaded")

	store, err := state.Open(cfg.State.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.State.Path).Msg("Failed to open state store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing state store")
		}
	}()

	resolver, err := resolve.LoadFile(cfg.Library.UserMappingPath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Library.UserMappingPath).Msg("Failed to load user mapping")
	}
	logging.Info().Int("mappings", resolver.Len()).Msg("User mapping loaded")

	plexClient := source.NewPlexClient(cfg.Plex.URL, cfg.Plex.Token)
	adapters := []source.Adapter{source.NewPlexAdapter(plexClient)}
	if cfg.Jellyfin.Enabled {
		adapters = append(adapters, source.NewJellyfinAdapter(source.NewJellyfinClient(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey)))
	}
	if cfg.SABnzbd.Enabled {
		adapters = append(adapters, source.NewSABnzbdAdapter(source.NewSABnzbdClient(cfg.SABnzbd.URL, cfg.SABnzbd.APIKey)))
	}
	if cfg.UptimeRobot.Enabled {
		adapters = append(adapters, source.NewUptimeRobotAdapter(source.NewUptimeRobotClient(cfg.UptimeRobot.APIKey, cfg.UptimeRobot.MonitorID)))
	}

	normalizer := titles.New(cfg.Titles.Keywords, cfg.Titles.MaxLength)
	aggregator := view.New(cfg, resolver, normalizer)
	renderer := render.New(cfg)
	cache := library.NewCache(plexClient, cfg)
	publisher := publish.New(publish.NewDiscordClient(cfg.Discord.BotToken), store, cfg)

	sched := scheduler.New(cfg, adapters, cache, aggregator, renderer, publisher)

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddPipelineService(sched)
	tree.AddAPIService(api.New(cfg, sched))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := tree.ServeBackground(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor exited with error")
		}
		if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
			logging.Warn().Int("count", len(report)).Msg("Services missed the shutdown timeout")
		}
	case err := <-errCh:
		logging.Fatal().Err(err).Msg("Supervisor exited unexpectedly")
	}

	logging.Info().Msg("Shutdown complete")
}
