// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

/*
Package models defines the data structures shared across the pipeline.

Two kinds of types live here:

  - Upstream API models: the subsets of the Plex, Jellyfin, SABnzbd,
    and UptimeRobot responses the dashboard consumes (plex.go,
    jellyfin.go, sabnzbd.go, uptimerobot.go).

  - Pipeline models: the immutable SourceSnapshot each fetch produces
    (snapshot.go) and the ViewModel the aggregator builds per tick
    (view.go), which both the Discord embed and the presence line are
    rendered from.

Nothing in this package performs I/O; clients decode into the upstream
models and the aggregator assembles the pipeline models from them.
*/
package models
