// Package tcache caches optimized templates keyed by a structural
// fingerprint of their source content.
package tcache

import (
	"regexp"
	"sort"
	"time"
)

// Metrics records what one optimization pass achieved. Derived once per
// optimize call and read-only afterwards.
type Metrics struct {
	OriginalTokens     int      `json:"original_tokens"`
	OptimizedTokens    int      `json:"optimized_tokens"`
	ReductionPct       float64  `json:"reduction_pct"`
	OptimizationTimeMs float64  `json:"optimization_time_ms"`
	Techniques         []string `json:"techniques,omitempty"`
	SemanticScore      float64  `json:"semantic_score"`
	CompatibilityScore float64  `json:"compatibility_score"`
}

// Entry is one cached optimization. Owned exclusively by the Cache;
// LastAccessed and AccessCount mutate on every hit.
type Entry struct {
	ID               string    `json:"id"` // SHA-256 of normalized content
	Pattern          string    `json:"pattern,omitempty"`
	OptimizedContent string    `json:"optimized_content"`
	CreatedAt        time.Time `json:"created_at"`
	LastAccessed     time.Time `json:"last_accessed"`
	AccessCount      int64     `json:"access_count"`
	Metrics          Metrics   `json:"metrics"`
	ContextType      string    `json:"context_type,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	SizeBytes        int64     `json:"size_bytes"`
}

// Age returns how long ago the entry was created.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Idle returns how long ago the entry was last accessed.
func (e *Entry) Idle(now time.Time) time.Duration {
	return now.Sub(e.LastAccessed)
}

var tagNamePattern = regexp.MustCompile(`<([a-zA-Z_][\w-]*)[^<>]*>`)

// extractTags returns the distinct sorted tag names in content, used as
// categorical tags on cache entries.
func extractTags(content string) []string {
	seen := make(map[string]bool)
	for _, m := range tagNamePattern.FindAllStringSubmatch(content, -1) {
		seen[m[1]] = true
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
