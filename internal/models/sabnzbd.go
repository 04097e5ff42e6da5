// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package models

// SABnzbd REST API models.
// Subset of GET /api?mode=queue&output=json consumed by the dashboard.
// API Reference: https://sabnzbd.org/wiki/advanced/api

// SABnzbdQueueResponse is the top-level response from mode=queue.
type SABnzbdQueueResponse struct {
	Queue SABnzbdQueue `json:"queue"`
}

// SABnzbdQueue wraps the queue slots and global transfer state.
// SABnzbd reports sizes in megabytes and speed in KB/s as strings.
type SABnzbdQueue struct {
	Status         string        `json:"status"` // "Downloading", "Paused", "Idle"
	Paused         bool          `json:"paused"`
	KBPerSec       string        `json:"kbpersec"`
	DiskSpace1     string        `json:"diskspace1"`      // free space, GB
	DiskSpaceTotal string        `json:"diskspacetotal1"` // total space, GB
	NoOfSlotsTotal int           `json:"noofslots_total"`
	Slots          []SABnzbdSlot `json:"slots"`
}

// SABnzbdSlot is one queued download.
type SABnzbdSlot struct {
	NzoID      string `json:"nzo_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	MB         string `json:"mb"`
	MBLeft     string `json:"mbleft"`
	Percentage string `json:"percentage"`
	TimeLeft   string `json:"timeleft"`
}
