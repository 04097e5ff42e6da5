// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package render turns a view model into the Discord dashboard embed,
// the presence line, and a content hash. The render is deterministic:
// the same view model always yields byte-identical output, and the hash
// covers everything except the generation timestamp so an unchanged
// dashboard is recognized and skipped by the publisher.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"

	"github.com/tomtom215/streamboard/internal/config"
	"github.com/tomtom215/streamboard/internal/models"
)

const (
	colorOnline  = 0x2ECC71
	colorOffline = 0xE74C3C

	progressBarWidth = 10
	barFilled        = "▓"
	barEmpty         = "░"
	pauseMarker      = "⏸️"
)

// Output is one rendered dashboard state.
type Output struct {
	Embed    Embed
	Presence string

	// Hash identifies the rendered content. Two outputs with equal
	// hashes are interchangeable on screen; the timestamp and footer
	// are excluded so a content-identical re-render hashes the same.
	Hash uint64
}

// Renderer renders view models using the configured dashboard
// appearance and presence templates.
type Renderer struct {
	cfg *config.Config
}

// New builds a renderer.
func New(cfg *config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render produces the embed, presence line, and content hash for one
// view model.
func (r *Renderer) Render(vm *models.ViewModel) Output {
	var embed Embed
	embed.Title = r.cfg.Dashboard.Name
	embed.Timestamp = vm.GeneratedAt.UTC().Format(time.RFC3339)
	embed.Footer = &EmbedFooter{
		Text:    "Last updated",
		IconURL: r.cfg.Dashboard.FooterIconURL,
	}
	if r.cfg.Dashboard.IconURL != "" {
		embed.Thumbnail = &EmbedMedia{URL: r.cfg.Dashboard.IconURL}
	}

	if vm.PrimaryDown() {
		embed.Color = colorOffline
		embed.Description = r.offlineDescription(vm)
	} else {
		embed.Color = colorOnline
		embed.Fields = append(embed.Fields, r.streamsField(vm))
	}

	if field, ok := r.queueField(vm); ok {
		embed.Fields = append(embed.Fields, field)
	}
	if field, ok := uptimeField(vm); ok {
		embed.Fields = append(embed.Fields, field)
	}
	if field, ok := sectionsField(vm); ok {
		embed.Fields = append(embed.Fields, field)
	}

	presence := r.presenceLine(vm)

	return Output{
		Embed:    embed,
		Presence: presence,
		Hash:     contentHash(&embed, presence),
	}
}

// contentHash digests the display content. The timestamp and footer
// carry the render time and are deliberately left out.
func contentHash(embed *Embed, presence string) uint64 {
	var b strings.Builder
	b.WriteString(embed.Title)
	b.WriteByte(0)
	b.WriteString(embed.Description)
	b.WriteByte(0)
	fmt.Fprintf(&b, "%06x", embed.Color)
	for _, f := range embed.Fields {
		b.WriteByte(0)
		b.WriteString(f.Name)
		b.WriteByte(0)
		b.WriteString(f.Value)
	}
	b.WriteByte(0)
	b.WriteString(presence)
	return xxh3.HashString(b.String())
}

// offlineDescription renders the outage banner shown instead of the
// stream list while the primary source is down.
func (r *Renderer) offlineDescription(vm *models.ViewModel) string {
	text := r.cfg.Presence.OfflineText
	if vm.OfflineSince.IsZero() {
		return text
	}
	return fmt.Sprintf("%s\nSince <t:%d:R>", text, vm.OfflineSince.Unix())
}

// streamsField renders the active stream list with one block per
// session: title line, then user / progress / quality details.
func (r *Renderer) streamsField(vm *models.ViewModel) EmbedField {
	name := fmt.Sprintf("🎬 Active Streams (%d)", vm.TotalCount)
	if vm.TotalCount == 0 {
		// A failed fetch below the outage threshold still reads
		// differently from an idle server.
		if vm.Health[models.SourcePlex].ConsecutiveFailures > 0 {
			return EmbedField{Name: name, Value: "*⚠️ Plex not responding*"}
		}
		return EmbedField{Name: name, Value: "*No active streams*"}
	}

	var b strings.Builder
	for i := range vm.Streams {
		s := &vm.Streams[i]
		if i > 0 {
			b.WriteString("\n\n")
		}

		fmt.Fprintf(&b, "**%s %s**\n", r.streamEmoji(s), s.Title)
		fmt.Fprintf(&b, "%s · %s", s.User, progressBar(s.ProgressFraction, s.Paused))
		if pair := clockPair(s.ElapsedMillis, s.DurationMillis); pair != "" {
			b.WriteString(" ")
			b.WriteString(pair)
		}

		details := streamDetails(s)
		if details != "" {
			b.WriteString("\n")
			b.WriteString(details)
		}
	}

	if vm.TotalCount > len(vm.Streams) {
		fmt.Fprintf(&b, "\n\n*+%d more*", vm.TotalCount-len(vm.Streams))
	}

	return EmbedField{Name: name, Value: b.String()}
}

// streamEmoji picks the content marker for one session: the configured
// section emoji when the session's library section has one, else a
// default by media type.
func (r *Renderer) streamEmoji(s *models.StreamSession) string {
	if sec, ok := r.cfg.SectionFor(s.SectionTitle); ok && sec.Emoji != "" {
		return sec.Emoji
	}
	switch s.MediaType {
	case "track":
		return "🎵"
	case "movie":
		return "🎥"
	default:
		return "📺"
	}
}

// streamDetails joins the optional quality, bitrate, and player labels.
// Absent upstream fields simply don't appear.
func streamDetails(s *models.StreamSession) string {
	parts := make([]string, 0, 4)
	if s.QualityLabel != "" {
		parts = append(parts, s.QualityLabel)
	}
	if s.BitrateLabel != "" {
		parts = append(parts, s.BitrateLabel)
	}
	if s.PlayerLabel != "" {
		parts = append(parts, s.PlayerLabel)
	}
	if s.Transcoding {
		parts = append(parts, "🔁 Transcode")
	}
	return strings.Join(parts, " · ")
}

// queueField renders the download section: capped item list, then the
// global speed and disk space summary.
func (r *Renderer) queueField(vm *models.ViewModel) (EmbedField, bool) {
	if vm.QueueTotal == 0 {
		return EmbedField{}, false
	}

	var b strings.Builder
	var speed, totalSize int64
	for i := range vm.Queue {
		item := &vm.Queue[i]
		if i > 0 {
			b.WriteString("\n")
		}
		title := item.Title
		if title == "" {
			// Keyword trimming can consume an entire release name.
			title = "(unnamed)"
		}
		fmt.Fprintf(&b, "**%s** · %s %s %.0f%%",
			title,
			humanize.IBytes(uint64(item.SizeBytes)),
			progressBar(item.ProgressFraction, false),
			item.ProgressFraction*100)
		speed += item.SpeedBytesPerSec
		totalSize += item.SizeBytes
	}

	if vm.QueueTotal > len(vm.Queue) {
		fmt.Fprintf(&b, "\n*+%d queued*", vm.QueueTotal-len(vm.Queue))
	}
	if totalSize > 0 {
		fmt.Fprintf(&b, "\n📦 %s total", humanize.IBytes(uint64(totalSize)))
	}
	if speed > 0 {
		fmt.Fprintf(&b, "\n⬇️ %s/s", humanize.IBytes(uint64(speed)))
	}
	if vm.TotalSpace > 0 {
		fmt.Fprintf(&b, "\n💾 %s / %s free", humanize.IBytes(uint64(vm.FreeSpace)), humanize.IBytes(uint64(vm.TotalSpace)))
	}

	name := fmt.Sprintf("📥 Downloads (%d)", vm.QueueTotal)
	return EmbedField{Name: name, Value: b.String()}, true
}

// uptimeField renders the three uptime windows. The field is omitted
// entirely when the last monitor fetch failed.
func uptimeField(vm *models.ViewModel) (EmbedField, bool) {
	if vm.Uptime == nil {
		return EmbedField{}, false
	}

	value := fmt.Sprintf("24h: %.2f%% · 7d: %.2f%% · 30d: %.2f%%",
		vm.Uptime.Day.Percentage,
		vm.Uptime.Week.Percentage,
		vm.Uptime.Month.Percentage)

	return EmbedField{Name: "📡 Uptime", Value: value}, true
}

// sectionsField renders the library counts, one line per section.
func sectionsField(vm *models.ViewModel) (EmbedField, bool) {
	if len(vm.Sections) == 0 {
		return EmbedField{}, false
	}

	var b strings.Builder
	for i := range vm.Sections {
		s := &vm.Sections[i]
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s: %s", s.Emoji, s.DisplayName, groupDigits(s.Count))
		if s.ShowEpisodes && s.Episodes > 0 {
			fmt.Fprintf(&b, " (%s Episodes)", groupDigits(s.Episodes))
		}
	}

	return EmbedField{Name: "🗃️ Library", Value: b.String()}, true
}

// presenceLine renders the short status text. {count} and {s} expand to
// the merged stream count and its plural suffix. With no streams active,
// the line falls back to the configured section counts.
func (r *Renderer) presenceLine(vm *models.ViewModel) string {
	if vm.PrimaryDown() {
		return r.cfg.Presence.OfflineText
	}
	if vm.TotalCount == 0 {
		return r.sectionPresence(vm)
	}

	suffix := "s"
	if vm.TotalCount == 1 {
		suffix = ""
	}

	line := r.cfg.Presence.StreamText
	line = strings.ReplaceAll(line, "{count}", fmt.Sprintf("%d", vm.TotalCount))
	line = strings.ReplaceAll(line, "{s}", suffix)
	return line
}

// sectionPresence renders the idle presence line from the library counts
// of the sections flagged for presence, in declared order. Sections
// without cached counts are skipped.
func (r *Renderer) sectionPresence(vm *models.ViewModel) string {
	counts := make(map[string]int, len(vm.Sections))
	for i := range vm.Sections {
		counts[vm.Sections[i].SectionTitle] = vm.Sections[i].Count
	}

	sections := r.cfg.PresenceSections()
	parts := make([]string, 0, len(sections))
	for _, sec := range sections {
		count, ok := counts[sec.SectionTitle]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", groupDigits(count), sec.DisplayName, sec.Emoji))
	}

	if len(parts) == 0 {
		return "No streams or sections configured"
	}
	return strings.Join(parts, " | ")
}

// progressBar renders a fixed-width bar; paused playback is prefixed
// with a pause marker instead of using a different fill.
func progressBar(fraction float64, paused bool) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	filled := int(fraction*progressBarWidth + 0.5)
	bar := strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, progressBarWidth-filled)
	if paused {
		return pauseMarker + " " + bar
	}
	return bar
}

// clockPair renders "elapsed / total" playback positions.
func clockPair(elapsedMillis, durationMillis int64) string {
	if durationMillis <= 0 {
		return ""
	}
	return fmt.Sprintf("`%s / %s`", clock(elapsedMillis), clock(durationMillis))
}

// clock renders a millisecond position as M:SS or H:MM:SS.
func clock(millis int64) string {
	total := millis / 1000
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// groupDigits formats a count with dot thousands separators (12.345).
func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
