// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package titles

import (
	"strings"
	"testing"
	"unicode/utf8"
)

var defaultKeywords = []string{"German", "1080p", "720p", "WEB", "x264"}

func TestNormalizeKeywordBoundary(t *testing.T) {
	n := New(defaultKeywords, 40)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "release name trimmed at first keyword",
			in:   "Movie.Name.German.1080p.mkv",
			want: "Movie Name",
		},
		{
			name: "case-insensitive keyword match",
			in:   "Movie.Name.GERMAN.DL.mkv",
			want: "Movie Name",
		},
		{
			name: "earliest keyword wins",
			in:   "Show.1080p.German.mkv",
			want: "Show",
		},
		{
			name: "no keyword leaves title intact",
			in:   "Some Regular Title",
			want: "Some Regular Title",
		},
		{
			name: "separators cleaned without keyword",
			in:   "..Some_Title..",
			want: "Some Title",
		},
		{
			name: "keyword at position zero yields empty",
			in:   "German.Movie.mkv",
			want: "",
		},
		{
			name: "empty title",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCaseLengthChangingRunes(t *testing.T) {
	// Ⱥ lowers to a longer byte sequence, İ to a shorter one; the cut
	// offset must track the original string, not a lowered copy.
	n := New([]string{"x"}, 40)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowered form longer than original",
			in:   "ȺȺȺȺȺȺX",
			want: "ȺȺȺȺȺȺ",
		},
		{
			name: "lowered form shorter than original",
			in:   "İİİİİİX",
			want: "İİİİİİ",
		},
		{
			name: "keyword after mixed-width runes",
			in:   "Ⱥİ.Title.X.mkv",
			want: "Ⱥİ Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeMaxLength(t *testing.T) {
	n := New(nil, 10)

	got := n.Normalize("A Very Long Title That Keeps Going")
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if length := utf8.RuneCountInString(strings.TrimSuffix(got, Ellipsis)); length > 10 {
		t.Errorf("normalized length %d exceeds max 10 (%q)", length, got)
	}
}

func TestNormalizeLengthBoundForAllInputs(t *testing.T) {
	n := New(defaultKeywords, 12)

	inputs := []string{
		"Short",
		"Exactly.Twelve.Chars.German",
		"An Extremely Long Download Title Without Any Keywords At All",
		"Übermäßig.Lange.Deutsche.Titelzeile.Ohne.Ende",
		strings.Repeat("x", 500),
		strings.Repeat("Ⱥ", 30) + ".German.mkv",
		strings.Repeat("İ", 30) + ".German.mkv",
	}

	for _, in := range inputs {
		got := n.Normalize(in)
		length := utf8.RuneCountInString(strings.TrimSuffix(got, Ellipsis))
		if length > 12 {
			t.Errorf("Normalize(%q) length %d exceeds max", in, length)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(defaultKeywords, 20)

	inputs := []string{
		"Movie.Name.German.1080p.mkv",
		"A Very Long Title That Will Definitely Be Truncated Somewhere",
		"German.First.mkv",
		"Plain Title",
		"",
		"trailing.space.before.cut .German.mkv",
		"ȺȺȺȺȺȺ.German.mkv",
		strings.Repeat("İ", 25),
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNewSkipsBlankKeywords(t *testing.T) {
	n := New([]string{" ", "", "German "}, 40)
	if got := n.Normalize("Movie.German.mkv"); got != "Movie" {
		t.Errorf("Normalize = %q, want %q", got, "Movie")
	}
}
