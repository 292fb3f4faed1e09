// Package xmlopt rewrites verbose XML instruction snippets into compact
// Claude-friendly equivalents.
package xmlopt

import "regexp"

var tokenPattern = regexp.MustCompile(`\b\w+\b|[<>/]`)

// EstimateTokens approximates the token count of content by counting word
// runs and angle-bracket punctuation. It is not a real tokenizer; it exists
// so before/after counts are measured with the same yardstick and so tests
// can assert exact values.
func EstimateTokens(content string) int {
	if content == "" {
		return 0
	}
	return len(tokenPattern.FindAllString(content, -1))
}

// TokenStats holds before/after token estimates.
type TokenStats struct {
	Before int
	After  int
}

// Saved returns the number of tokens saved.
func (s TokenStats) Saved() int {
	return s.Before - s.After
}

// PercentReduction returns the percentage reduction (0-100).
func (s TokenStats) PercentReduction() float64 {
	if s.Before == 0 {
		return 0
	}
	return float64(s.Saved()) / float64(s.Before) * 100
}
