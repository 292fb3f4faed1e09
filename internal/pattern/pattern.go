// Package pattern matches XML instruction snippets against a small fixed
// registry of named structural signatures.
package pattern

import (
	"strings"
	"sync"
)

// Pattern is a named structural signature with indicator substrings.
type Pattern struct {
	Name        string
	Description string
	Indicators  []string
	Weight      float64
}

// Match is the best-scoring pattern for a snippet.
type Match struct {
	Name       string
	Confidence float64
	Matched    []string // indicators that hit
}

// ConfidenceThreshold is the score above which a match counts as confident
// in the recognizer's accuracy statistics.
const ConfidenceThreshold = 0.7

// Recognizer scores snippets against its registry.
type Recognizer struct {
	patterns []Pattern

	mu        sync.Mutex
	calls     int
	confident int
}

// New creates a Recognizer with the default pattern registry.
func New() *Recognizer {
	return NewWithPatterns(DefaultPatterns())
}

// NewWithPatterns creates a Recognizer with a custom registry. Registration
// order matters: when two patterns score identically, the earlier one wins.
func NewWithPatterns(patterns []Pattern) *Recognizer {
	return &Recognizer{patterns: patterns}
}

// DefaultPatterns returns the built-in signature registry.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:        "simple_task",
			Description: "Single direct instruction with little structure",
			Indicators:  []string{"<task>", "create", "write", "fix"},
			Weight:      2.0,
		},
		{
			Name:        "analysis_task",
			Description: "Request to analyze or review existing material",
			Indicators:  []string{"analyze", "review", "assess", "evaluate"},
			Weight:      3.0,
		},
		{
			Name:        "workflow_task",
			Description: "Multi-step workflow with ordered phases",
			Indicators:  []string{"workflow", "step", "phase", "sequence"},
			Weight:      3.0,
		},
		{
			Name:        "code_generation",
			Description: "Request to produce code or implementations",
			Indicators:  []string{"function", "code", "implement", "class"},
			Weight:      3.0,
		},
		{
			Name:        "constraint_heavy",
			Description: "Instruction dominated by musts and avoids",
			Indicators:  []string{"must", "avoid", "require", "constraint"},
			Weight:      2.5,
		},
	}
}

// Recognize scores the snippet against every registered pattern and returns
// the highest scorer. Ties resolve to the earliest registered pattern.
func (r *Recognizer) Recognize(text string) Match {
	lower := strings.ToLower(text)
	bonus := structuralBonus(lower)

	best := Match{}
	for _, p := range r.patterns {
		var matched []string
		for _, ind := range p.Indicators {
			if strings.Contains(lower, ind) {
				matched = append(matched, ind)
			}
		}
		ratio := 0.0
		if len(p.Indicators) > 0 {
			ratio = float64(len(matched)) / float64(len(p.Indicators))
		}

		score := (ratio + bonus) * (p.Weight / 3.0)
		if score > 1.0 {
			score = 1.0
		}
		if ratio == 0 {
			// No indicator hit at all; structural bonus alone is not a match.
			score = 0
		}

		if score > best.Confidence {
			best = Match{Name: p.Name, Confidence: score, Matched: matched}
		}
	}

	r.mu.Lock()
	r.calls++
	if best.Confidence > ConfidenceThreshold {
		r.confident++
	}
	r.mu.Unlock()

	return best
}

// structuralBonus rewards snippets carrying workflow, constraint, or
// validation structure.
func structuralBonus(lower string) float64 {
	bonus := 0.0
	if strings.Contains(lower, "workflow") || strings.Contains(lower, "step") {
		bonus += 0.2
	}
	if strings.Contains(lower, "must") || strings.Contains(lower, "avoid") {
		bonus += 0.1
	}
	if strings.Contains(lower, "validate") || strings.Contains(lower, "test") {
		bonus += 0.1
	}
	return bonus
}

// Patterns returns the registry in registration order.
func (r *Recognizer) Patterns() []Pattern {
	return r.patterns
}

// Stats reports how many recognitions ran and what fraction were confident
// (score above ConfidenceThreshold). Observability only.
func (r *Recognizer) Stats() (calls int, confidentRate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == 0 {
		return 0, 0
	}
	return r.calls, float64(r.confident) / float64(r.calls)
}
