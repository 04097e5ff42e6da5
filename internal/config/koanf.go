// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/streamboard/config.yaml",
	"/etc/streamboard/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from defaults, an optional YAML file,
// and environment variables, then validates it. Validation failure here
// is the only fatal configuration path; nothing re-validates at tick
// time.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.deriveEnabledFlags()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// deriveEnabledFlags resolves the optional integrations once from
// credential presence. Adapters and health accounting consult these
// flags only; a missing credential means disabled, never an outage.
func (c *Config) deriveEnabledFlags() {
	c.Jellyfin.Enabled = c.Jellyfin.URL != "" && c.Jellyfin.APIKey != ""
	c.SABnzbd.Enabled = c.SABnzbd.URL != "" && c.SABnzbd.APIKey != ""
	c.UptimeRobot.Enabled = c.UptimeRobot.APIKey != "" && c.UptimeRobot.MonitorID > 0
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps environment variable names to koanf paths.
//
// Examples:
//   - PLEX_URL -> plex.url
//   - JELLYFIN_API_KEY -> jellyfin.api_key
//   - DISCORD_BOT_TOKEN -> discord.bot_token
//   - SCHEDULER_INTERVAL -> scheduler.interval
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"plex_url":   "plex.url",
		"plex_token": "plex.token",

		"jellyfin_url":     "jellyfin.url",
		"jellyfin_api_key": "jellyfin.api_key",

		"sabnzbd_url":     "sabnzbd.url",
		"sabnzbd_api_key": "sabnzbd.api_key",

		"uptimerobot_api_key":    "uptimerobot.api_key",
		"uptimerobot_monitor_id": "uptimerobot.monitor_id",

		"discord_bot_token":  "discord.bot_token",
		"discord_channel_id": "discord.channel_id",

		"dashboard_name":            "dashboard.name",
		"dashboard_icon_url":        "dashboard.icon_url",
		"dashboard_footer_icon_url": "dashboard.footer_icon_url",
		"dashboard_show_all":        "dashboard.show_all",

		"presence_offline_text": "presence.offline_text",
		"presence_stream_text":  "presence.stream_text",
		"presence_min_interval": "presence.min_interval",

		"title_keywords":   "titles.keywords",
		"title_max_length": "titles.max_length",

		"scheduler_interval":          "scheduler.interval",
		"scheduler_source_timeout":    "scheduler.source_timeout",
		"scheduler_failure_threshold": "scheduler.failure_threshold",

		"library_update_interval": "library.update_interval",
		"user_mapping_path":       "library.user_mapping_path",

		"state_path": "state.path",

		"http_host": "server.host",
		"http_port": "server.port",

		"log_level":  "logging.level",
		"log_format": "logging.format",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unknown variables are dropped rather than guessed at.
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when supplied via environment variables.
var sliceConfigPaths = []string{
	"titles.keywords",
}

// processSliceFields converts comma-separated env strings to slices for
// known slice fields. YAML-sourced values are already slices and are
// left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		str, ok := val.(string)
		if !ok {
			continue
		}

		parts := strings.Split(str, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}

		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}

	return nil
}
