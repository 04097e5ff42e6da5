// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package titles trims release-style download titles into something a
// dashboard can show: scene tags are cut off at the first configured
// keyword and the result is bounded to a maximum display length.
package titles

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ellipsis is appended when a title is cut for length.
const Ellipsis = "…"

// separators are the token separator characters common in release
// names, stripped from the ends of the result.
const separators = " .-_[]():"

// Normalizer trims titles at keyword boundaries and enforces a maximum
// length. The zero value is unusable; use New.
type Normalizer struct {
	keywords []string // lower-cased
	maxLen   int
}

// New creates a Normalizer. Keywords are matched case-insensitively as
// boundaries; maxLen bounds the rune length of the result (excluding
// the ellipsis marker).
func New(keywords []string, maxLen int) *Normalizer {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}
	return &Normalizer{keywords: lowered, maxLen: maxLen}
}

// Normalize trims the title at the first keyword boundary, cleans up
// separators, and truncates to the maximum length. It is idempotent:
// normalizing an already normalized title returns it unchanged. A
// keyword match at position 0 yields the empty string; callers render
// a placeholder for that.
func (n *Normalizer) Normalize(rawTitle string) string {
	title := rawTitle

	if cut := n.keywordBoundary(title); cut >= 0 {
		title = title[:cut]
	}

	title = strings.Trim(title, separators)

	// Release names use dots and underscores as word separators.
	title = strings.ReplaceAll(title, ".", " ")
	title = strings.ReplaceAll(title, "_", " ")
	title = strings.Join(strings.Fields(title), " ")

	runes := []rune(title)
	if n.maxLen > 0 && len(runes) > n.maxLen {
		title = strings.TrimRight(string(runes[:n.maxLen]), " ") + Ellipsis
	}

	return title
}

// keywordBoundary returns the byte offset of the earliest keyword
// occurrence, or -1 when no keyword matches. Matching is done rune by
// rune against the original string: lowercasing the whole title first
// can change its byte length (İ shrinks, Ⱥ grows) and skew the offset.
func (n *Normalizer) keywordBoundary(title string) int {
	cut := -1
	for _, kw := range n.keywords {
		if idx := foldIndex(title, kw); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	return cut
}

// foldIndex returns the byte offset in s of the first case-insensitive
// occurrence of the already-lowercased needle, or -1.
func foldIndex(s, needle string) int {
	for i := range s {
		if hasFoldPrefix(s[i:], needle) {
			return i
		}
	}
	return -1
}

// hasFoldPrefix reports whether s starts with the already-lowercased
// needle under per-rune simple case folding.
func hasFoldPrefix(s, needle string) bool {
	for _, want := range needle {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || unicode.ToLower(r) != want {
			return false
		}
		s = s[size:]
	}
	return true
}
