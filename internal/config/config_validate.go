// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package config

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks that required configuration is present and valid.
// Struct tags cover field-level rules; cross-field rules follow below.
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := c.validateSections(); err != nil {
		return err
	}

	return c.validateScheduler()
}

// validateSections rejects duplicate section titles, which would make
// the configured-section ordering ambiguous.
func (c *Config) validateSections() error {
	seen := make(map[string]struct{}, len(c.Dashboard.Sections))
	for _, s := range c.Dashboard.Sections {
		if _, dup := seen[s.SectionTitle]; dup {
			return fmt.Errorf("duplicate dashboard section %q", s.SectionTitle)
		}
		seen[s.SectionTitle] = struct{}{}
	}
	return nil
}

// validateScheduler rejects a per-source timeout at or above the tick
// interval; the fan-out must resolve well within one tick.
func (c *Config) validateScheduler() error {
	if c.Scheduler.SourceTimeout >= c.Scheduler.Interval {
		return fmt.Errorf("scheduler source_timeout (%s) must be below interval (%s)",
			c.Scheduler.SourceTimeout, c.Scheduler.Interval)
	}
	return nil
}

// PresenceSections returns the configured sections flagged for the
// presence line, in declared order.
func (c *Config) PresenceSections() []SectionConfig {
	out := make([]SectionConfig, 0, len(c.Dashboard.Sections))
	for _, s := range c.Dashboard.Sections {
		if s.IncludeInPresence {
			out = append(out, s)
		}
	}
	return out
}

// SectionFor returns the display configuration for a section title and
// whether one was configured.
func (c *Config) SectionFor(title string) (SectionConfig, bool) {
	for _, s := range c.Dashboard.Sections {
		if s.SectionTitle == title {
			return s, true
		}
	}
	return SectionConfig{}, false
}
