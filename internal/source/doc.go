// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package source implements the typed clients for the polled upstream
// services (Plex, Jellyfin, SABnzbd, UptimeRobot) and the snapshot
// adapters the scheduler fans out over.
//
// Adapters never let an upstream failure escape as an error: every
// fetch resolves to a models.SourceSnapshot, failed or not, and each
// upstream call runs through a circuit breaker so a flapping service
// is backed off instead of hammered every tick.
package source
