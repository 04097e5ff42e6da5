// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package config provides layered configuration for Streamboard.
//
// Configuration is loaded via Koanf v2 with three layers, highest
// priority last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml)
//  3. Environment variables (PLEX_URL, DISCORD_BOT_TOKEN, ...)
//
// Optional integrations (Jellyfin, SABnzbd, UptimeRobot) are enabled by
// the presence of their credentials: Load derives each Enabled flag once
// at startup, and nothing probes for credentials at tick time.
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Plex        PlexConfig        `koanf:"plex"`
	Jellyfin    JellyfinConfig    `koanf:"jellyfin"`    // Optional: enabled when URL+API key are set
	SABnzbd     SABnzbdConfig     `koanf:"sabnzbd"`     // Optional: enabled when URL+API key are set
	UptimeRobot UptimeRobotConfig `koanf:"uptimerobot"` // Optional: enabled when API key+monitor are set
	Discord     DiscordConfig     `koanf:"discord"`
	Dashboard   DashboardConfig   `koanf:"dashboard"`
	Presence    PresenceConfig    `koanf:"presence"`
	Titles      TitlesConfig      `koanf:"titles"`
	Scheduler   SchedulerConfig   `koanf:"scheduler"`
	Library     LibraryConfig     `koanf:"library"`
	State       StateConfig       `koanf:"state"`
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// PlexConfig holds the primary stream source settings. Plex is the only
// required integration; its outage is reported on the dashboard rather
// than hidden.
type PlexConfig struct {
	URL   string `koanf:"url" validate:"required,url"`
	Token string `koanf:"token" validate:"required"`
}

// JellyfinConfig holds the optional secondary stream source settings.
type JellyfinConfig struct {
	// Enabled is derived in Load from URL and APIKey presence.
	Enabled bool   `koanf:"-"`
	URL     string `koanf:"url" validate:"omitempty,url"`
	APIKey  string `koanf:"api_key"`
}

// SABnzbdConfig holds the optional download queue source settings.
type SABnzbdConfig struct {
	Enabled bool   `koanf:"-"`
	URL     string `koanf:"url" validate:"omitempty,url"`
	APIKey  string `koanf:"api_key"`
}

// UptimeRobotConfig holds the optional uptime monitor source settings.
type UptimeRobotConfig struct {
	Enabled   bool   `koanf:"-"`
	APIKey    string `koanf:"api_key"`
	MonitorID int64  `koanf:"monitor_id"`
}

// DiscordConfig holds the output sink settings. The dashboard is a
// single message in ChannelID edited in place; presence is published as
// the channel topic.
type DiscordConfig struct {
	BotToken  string `koanf:"bot_token" validate:"required"`
	ChannelID string `koanf:"channel_id" validate:"required"`
}

// SectionConfig configures one library section's dashboard display.
type SectionConfig struct {
	SectionTitle      string `koanf:"section_title" validate:"required"`
	DisplayName       string `koanf:"display_name" validate:"required"`
	Emoji             string `koanf:"emoji"`
	ShowEpisodes      bool   `koanf:"show_episodes"`
	IncludeInPresence bool   `koanf:"include_in_presence"`
}

// DashboardConfig holds dashboard appearance settings.
type DashboardConfig struct {
	Name          string          `koanf:"name"`
	IconURL       string          `koanf:"icon_url" validate:"omitempty,url"`
	FooterIconURL string          `koanf:"footer_icon_url" validate:"omitempty,url"`
	ShowAll       bool            `koanf:"show_all"` // also show sections not configured below
	Sections      []SectionConfig `koanf:"sections" validate:"dive"`
}

// PresenceConfig holds the presence line templates. StreamText supports
// {count} and {s} placeholders for the merged stream count and plural
// suffix.
type PresenceConfig struct {
	OfflineText string        `koanf:"offline_text"`
	StreamText  string        `koanf:"stream_text"`
	MinInterval time.Duration `koanf:"min_interval" validate:"min=0"`
}

// TitlesConfig holds the download title normalizer settings.
type TitlesConfig struct {
	// Keywords mark token boundaries; the title is cut before the first
	// case-insensitive match.
	Keywords  []string `koanf:"keywords"`
	MaxLength int      `koanf:"max_length" validate:"min=1"`
}

// SchedulerConfig holds the tick loop settings.
type SchedulerConfig struct {
	Interval      time.Duration `koanf:"interval" validate:"min=1s"`
	SourceTimeout time.Duration `koanf:"source_timeout" validate:"min=100ms"`

	// FailureThreshold is the consecutive-failure count at which a
	// source is shown as down instead of merely empty.
	FailureThreshold int `koanf:"failure_threshold" validate:"min=1"`
}

// LibraryConfig holds the section-count cache settings.
type LibraryConfig struct {
	UpdateInterval time.Duration `koanf:"update_interval" validate:"min=1s"`

	// UserMappingPath points at the raw-username -> display-name JSON
	// file. Optional; unmapped names pass through unchanged.
	UserMappingPath string `koanf:"user_mapping_path"`
}

// StateConfig holds the durable state store settings.
type StateConfig struct {
	// Path is the BadgerDB directory for the published artifact state.
	Path string `koanf:"path" validate:"required"`
}

// ServerConfig holds the ops HTTP server settings (healthz, metrics,
// latest view).
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Plex: PlexConfig{
			URL:   "",
			Token: "",
		},
		Jellyfin: JellyfinConfig{
			URL:    "",
			APIKey: "",
		},
		SABnzbd: SABnzbdConfig{
			URL:    "",
			APIKey: "",
		},
		UptimeRobot: UptimeRobotConfig{
			APIKey:    "",
			MonitorID: 0,
		},
		Discord: DiscordConfig{
			BotToken:  "",
			ChannelID: "",
		},
		Dashboard: DashboardConfig{
			Name:    "Plex Dashboard",
			ShowAll: true,
		},
		Presence: PresenceConfig{
			OfflineText: "🔴 Server Offline!",
			StreamText:  "{count} active Stream{s} 🟢",
			MinInterval: 5 * time.Minute,
		},
		Titles: TitlesConfig{
			Keywords: []string{
				"German", "English", "2160p", "1080p", "720p",
				"WEB", "BluRay", "x264", "x265", "h264", "h265",
			},
			MaxLength: 40,
		},
		Scheduler: SchedulerConfig{
			Interval:         60 * time.Second,
			SourceTimeout:    10 * time.Second,
			FailureThreshold: 3,
		},
		Library: LibraryConfig{
			UpdateInterval:  15 * time.Minute,
			UserMappingPath: "data/user_mapping.json",
		},
		State: StateConfig{
			Path: "data/state",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8660,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
