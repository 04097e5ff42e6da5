// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package resolve maps raw media-server account names to the display
// names shown on the dashboard. Unmapped names pass through unchanged.
package resolve

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Resolver resolves raw usernames to display names. Lookups are O(1)
// and the mapping is read-only after construction, so a Resolver is
// safe for concurrent use.
type Resolver struct {
	mapping map[string]string
}

// New creates a Resolver from an explicit mapping. A nil mapping is
// valid and resolves every name to itself.
func New(mapping map[string]string) *Resolver {
	return &Resolver{mapping: mapping}
}

// LoadFile creates a Resolver from a JSON object file of the form
// {"rawName": "Display Name", ...}. A missing file is not an error:
// the dashboard simply shows raw names.
func LoadFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user mapping %s: %w", path, err)
	}

	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse user mapping %s: %w", path, err)
	}

	return New(mapping), nil
}

// Resolve returns the mapped display name for an exact, case-sensitive
// key match, or the input unchanged.
func (r *Resolver) Resolve(rawName string) string {
	if display, ok := r.mapping[rawName]; ok {
		return display
	}
	return rawName
}

// Len returns the number of configured mappings.
func (r *Resolver) Len() int {
	return len(r.mapping)
}
