// Package validate performs heuristic structural checks on XML instruction
// snippets. Nothing here is a schema validator; the goal is cheap signals
// (errors, warnings, complexity) to steer optimization and agent sizing.
package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pronghorn-cli/pronghorn/internal/xmlopt"
)

// Result is the outcome of one validation call.
type Result struct {
	IsValid               bool
	Errors                []string
	Warnings              []string
	ComplexityScore       int
	SuggestedAgents       int // one of 3, 5, 10
	EstimatedReductionPct float64
	TagCount              int
	MaxDepth              int
}

// complexityWeights scores tags by how much coordination they imply.
// Counted by substring occurrence over the lowercased content.
var complexityWeights = map[string]int{
	"workflow":  3,
	"step":      2,
	"analyze":   2,
	"implement": 2,
	"validate":  2,
	"task":      1,
	"must":      1,
	"avoid":     1,
	"context":   1,
	"format":    1,
}

const (
	maxComfortableDepth = 4
	manyTagsThreshold   = 10
	reductionCap        = 35.0
)

// Validator checks snippets and memoizes results per instance.
type Validator struct {
	mappings xmlopt.Mappings

	mu   sync.Mutex
	memo map[string]Result
}

// New creates a Validator using the given mapping tables to decide which
// tags are known and which are worth optimizing.
func New(mappings xmlopt.Mappings) *Validator {
	return &Validator{
		mappings: mappings,
		memo:     make(map[string]Result),
	}
}

// Validate checks a snippet. It never returns an error; structural problems
// are collected into the result. Results are memoized by trimmed content
// for the lifetime of this Validator.
func (v *Validator) Validate(text string) Result {
	key := memoKey(text)

	v.mu.Lock()
	if cached, ok := v.memo[key]; ok {
		v.mu.Unlock()
		return cached
	}
	v.mu.Unlock()

	result := v.validate(text)

	v.mu.Lock()
	v.memo[key] = result
	v.mu.Unlock()

	return result
}

func memoKey(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

func (v *Validator) validate(text string) Result {
	result := Result{IsValid: true}
	trimmed := strings.TrimSpace(text)

	if !strings.HasPrefix(trimmed, "<") || !strings.HasSuffix(trimmed, ">") {
		result.IsValid = false
		result.Errors = append(result.Errors, "content is not bounded by XML tags")
	}

	tags, maxDepth, parseErr := parseTags(trimmed)
	if parseErr != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("parse error: %v", parseErr))
	}
	result.TagCount = len(tags)
	result.MaxDepth = maxDepth

	if maxDepth > maxComfortableDepth {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("nesting depth %d exceeds %d; consider flattening", maxDepth, maxComfortableDepth))
	}
	if unknown := v.unknownTags(tags); len(unknown) > 0 {
		result.Warnings = append(result.Warnings,
			"unknown tags: "+strings.Join(unknown, ", "))
	}

	lower := strings.ToLower(text)
	result.ComplexityScore = complexityScore(lower, len(tags), maxDepth)
	result.SuggestedAgents = SuggestAgentCount(result.ComplexityScore, lower, len(tags))
	result.EstimatedReductionPct = v.estimateReduction(lower)

	return result
}

// parseTags attempts a best-effort parse by wrapping the snippet in a
// synthetic root element. The parse is disposable: failures are reported,
// never fatal. Returns start-element names and the maximum nesting depth
// (excluding the synthetic root).
func parseTags(text string) ([]string, int, error) {
	decoder := xml.NewDecoder(strings.NewReader("<r>" + text + "</r>"))

	var tags []string
	depth := 0
	maxDepth := 0
	for {
		tok, err := decoder.Token()
		if tok == nil {
			if err != nil && !errors.Is(err, io.EOF) {
				return tags, maxDepth, err
			}
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > 1 { // skip the synthetic root
				tags = append(tags, strings.ToLower(t.Name.Local))
				if depth-1 > maxDepth {
					maxDepth = depth - 1
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	return tags, maxDepth, nil
}

// unknownTags returns distinct tag names not present in the mapping tables
// (neither verbose keys nor short replacements).
func (v *Validator) unknownTags(tags []string) []string {
	short := v.mappings.ShortTags()
	seen := make(map[string]bool)
	var unknown []string
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		if _, verbose := v.mappings.Tags[tag]; verbose || short[tag] {
			continue
		}
		unknown = append(unknown, tag)
	}
	sort.Strings(unknown)
	return unknown
}

func complexityScore(lower string, tagCount, maxDepth int) int {
	score := 0
	for tag, weight := range complexityWeights {
		score += strings.Count(lower, tag) * weight
	}
	if tagCount > manyTagsThreshold {
		score += 2
	}
	if maxDepth > maxComfortableDepth {
		score += maxDepth - maxComfortableDepth
	}
	return score
}

// SuggestAgentCount picks 3, 5, or 10 agents from a fixed decision table.
// Rules are checked in order; the first match wins, so results are fully
// deterministic for a given score and content.
func SuggestAgentCount(complexityScore int, lower string, tagCount int) int {
	hasWorkflow := strings.Contains(lower, "workflow")
	hasValidation := strings.Contains(lower, "validat")
	hasExamples := strings.Contains(lower, "example") || strings.Contains(lower, "<ex>")

	switch {
	case complexityScore >= 8 || (hasWorkflow && (hasValidation || hasExamples)):
		return 10
	case complexityScore >= 4 || hasValidation || hasExamples || tagCount > 6:
		return 5
	default:
		return 3
	}
}

// estimateReduction gives an advisory reduction percentage before any real
// optimization runs: 2 points per optimizable tag occurrence plus 0.5 per
// newline, capped at 35%. The measured reduction after optimization is
// authoritative.
func (v *Validator) estimateReduction(lower string) float64 {
	estimate := 0.0
	for tag := range v.mappings.Tags {
		estimate += 2.0 * float64(strings.Count(lower, "<"+tag+">"))
	}
	estimate += 0.5 * float64(strings.Count(lower, "\n"))
	if estimate > reductionCap {
		estimate = reductionCap
	}
	return estimate
}
