package search

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// Keywords normalizes a free-text query into lowercase keyword tokens:
// non-alphanumeric characters (except whitespace) are stripped, the result
// is lowercased and trimmed, and split on whitespace. An empty or
// punctuation-only query yields no tokens.
func Keywords(q string) []string {
	cleaned := nonAlphanumeric.ReplaceAllString(q, "")
	return strings.Fields(strings.ToLower(strings.TrimSpace(cleaned)))
}

// MatchesKeywords reports whether every keyword is a case-insensitive
// substring of either the manufacturer name or the model name. An empty
// keyword list matches anything.
func MatchesKeywords(keywords []string, manufacturer, model string) bool {
	manufacturer = strings.ToLower(manufacturer)
	model = strings.ToLower(model)
	for _, kw := range keywords {
		if !strings.Contains(manufacturer, kw) && !strings.Contains(model, kw) {
			return false
		}
	}
	return true
}
