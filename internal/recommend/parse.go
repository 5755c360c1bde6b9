package recommend

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// listMarker strips leading list numbering like "1. Title", "2) Title",
// "3 - Title".
var listMarker = regexp.MustCompile(`^\d+\s*[.)\-]\s*`)

// NormalizeTitle cleans one line of LLM output into a bare movie title.
// Titles are NFC-normalized so that identity comparisons are stable across
// the composed/decomposed forms different models emit.
func NormalizeTitle(line string) string {
	t := strings.TrimSpace(line)
	t = listMarker.ReplaceAllString(t, "")
	t = strings.Trim(t, "-• ")
	t = strings.TrimSpace(t)
	return norm.NFC.String(t)
}

// ParseTitles extracts up to max titles from raw LLM output: one candidate
// per line, list markers stripped, short fragments dropped, duplicates
// removed case-insensitively while preserving first-seen order.
func ParseTitles(raw string, max int) []string {
	var titles []string
	seen := make(map[string]struct{})

	for _, line := range strings.Split(raw, "\n") {
		t := NormalizeTitle(line)
		if t == "" {
			continue
		}
		// Fragments this short are never real titles and make Radarr
		// lookups fail.
		if utf8.RuneCountInString(t) < 3 {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		titles = append(titles, t)
		if len(titles) == max {
			break
		}
	}

	return titles
}
