// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package library caches Plex library section counts. Counting a large
// section is far too slow to run on every dashboard tick, so counts are
// refreshed on their own interval and served from memory in between.
// When a refresh fails the previous counts stay visible rather than
// blanking the section line.
package library

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/streamboard/internal/config"
	"github.com/tomtom215/streamboard/internal/logging"
	"github.com/tomtom215/streamboard/internal/metrics"
	"github.com/tomtom215/streamboard/internal/models"
	"github.com/tomtom215/streamboard/internal/source"
)

// Cache is a read-through cache of library section stats.
type Cache struct {
	client   source.PlexClientInterface
	cfg      *config.Config
	interval time.Duration

	mu        sync.Mutex
	stats     []models.SectionStats
	refreshed time.Time
}

// NewCache builds the section-count cache. The first Snapshot call
// performs the initial refresh.
func NewCache(client source.PlexClientInterface, cfg *config.Config) *Cache {
	return &Cache{
		client:   client,
		cfg:      cfg,
		interval: cfg.Library.UpdateInterval,
	}
}

// Snapshot returns the current section stats, refreshing them first when
// the cache is stale. A failed refresh keeps serving the previous stats;
// the returned slice is a copy the caller may hold across ticks.
func (c *Cache) Snapshot(ctx context.Context) []models.SectionStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.refreshed) >= c.interval {
		stats, err := c.collect(ctx)
		if err != nil {
			metrics.LibraryCacheRefreshes.WithLabelValues("error").Inc()
			logging.Warn().Err(err).Msg("Library refresh failed, serving stale counts")
		} else {
			metrics.LibraryCacheRefreshes.WithLabelValues("ok").Inc()
			c.stats = stats
			c.refreshed = time.Now()
		}
	} else {
		metrics.LibraryCacheHits.Inc()
	}

	out := make([]models.SectionStats, len(c.stats))
	copy(out, c.stats)
	return out
}

// collect queries Plex for the sections and their counts. Configured
// sections come first in declared order; with show_all enabled the
// remaining sections follow in server order.
func (c *Cache) collect(ctx context.Context) ([]models.SectionStats, error) {
	sections, err := c.client.GetLibrarySections(ctx)
	if err != nil {
		return nil, err
	}

	configured := make([]models.SectionStats, 0, len(c.cfg.Dashboard.Sections))
	extra := make([]models.SectionStats, 0, len(sections))

	for i := range sections {
		section := &sections[i]
		if section.Type == "photo" {
			continue
		}

		sc, isConfigured := c.cfg.SectionFor(section.Title)
		if !isConfigured && !c.cfg.Dashboard.ShowAll {
			continue
		}

		stats, err := c.sectionStats(ctx, section, sc, isConfigured)
		if err != nil {
			return nil, err
		}

		if isConfigured {
			configured = append(configured, stats)
		} else {
			extra = append(extra, stats)
		}
	}

	ordered := make([]models.SectionStats, 0, len(configured)+len(extra))
	for _, sc := range c.cfg.Dashboard.Sections {
		for i := range configured {
			if configured[i].SectionTitle == sc.SectionTitle {
				ordered = append(ordered, configured[i])
			}
		}
	}
	ordered = append(ordered, extra...)

	return ordered, nil
}

func (c *Cache) sectionStats(ctx context.Context, section *models.PlexLibrarySection, sc config.SectionConfig, isConfigured bool) (models.SectionStats, error) {
	count, err := c.client.GetSectionCount(ctx, section.Key)
	if err != nil {
		return models.SectionStats{}, err
	}

	stats := models.SectionStats{
		SectionTitle: section.Title,
		DisplayName:  section.Title,
		Emoji:        defaultEmoji(section.Type),
		Count:        count,
	}
	if isConfigured {
		if sc.DisplayName != "" {
			stats.DisplayName = sc.DisplayName
		}
		if sc.Emoji != "" {
			stats.Emoji = sc.Emoji
		}
		stats.ShowEpisodes = sc.ShowEpisodes
	}

	if stats.ShowEpisodes && section.Type == "show" {
		episodes, err := c.client.GetSectionEpisodeCount(ctx, section.Key)
		if err != nil {
			return models.SectionStats{}, err
		}
		stats.Episodes = episodes
	}

	return stats, nil
}

// defaultEmoji picks a fallback emoji by section type for sections
// without explicit display configuration.
func defaultEmoji(sectionType string) string {
	switch sectionType {
	case "movie":
		return "🎬"
	case "show":
		return "📺"
	case "artist":
		return "🎵"
	default:
		return "📁"
	}
}
