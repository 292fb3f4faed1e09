package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognize_WorkflowTask(t *testing.T) {
	r := New()

	match := r.Recognize("<workflow><step>phase one</step><step>phase two in sequence</step></workflow>")

	assert.Equal(t, "workflow_task", match.Name)
	assert.Greater(t, match.Confidence, ConfidenceThreshold)
	assert.Contains(t, match.Matched, "workflow")
	assert.Contains(t, match.Matched, "step")
}

func TestRecognize_NoMatch(t *testing.T) {
	r := New()

	match := r.Recognize("lorem ipsum dolor")

	assert.Empty(t, match.Name)
	assert.Equal(t, 0.0, match.Confidence)
}

func TestRecognize_ConfidenceClamped(t *testing.T) {
	r := New()

	match := r.Recognize("workflow step phase sequence must avoid validate test")

	assert.LessOrEqual(t, match.Confidence, 1.0)
}

func TestRecognize_BonusAloneIsNotAMatch(t *testing.T) {
	r := New()

	// "test" earns a structural bonus but hits no pattern indicator.
	match := r.Recognize("test")

	assert.Empty(t, match.Name)
	assert.Equal(t, 0.0, match.Confidence)
}

func TestRecognize_TieBreaksToEarlierRegistration(t *testing.T) {
	patterns := []Pattern{
		{Name: "first", Indicators: []string{"alpha"}, Weight: 3.0},
		{Name: "second", Indicators: []string{"alpha"}, Weight: 3.0},
	}
	r := NewWithPatterns(patterns)

	match := r.Recognize("alpha content")
	assert.Equal(t, "first", match.Name)
}

func TestRecognize_Deterministic(t *testing.T) {
	r := New()

	text := "<task>implement a function with code in this class</task>"
	first := r.Recognize(text)
	second := r.Recognize(text)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestStats(t *testing.T) {
	r := New()

	calls, rate := r.Stats()
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0.0, rate)

	r.Recognize("workflow step phase sequence") // confident
	r.Recognize("lorem ipsum")                  // not

	calls, rate = r.Stats()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0.5, rate)
}

func TestDefaultPatterns_Order(t *testing.T) {
	patterns := DefaultPatterns()
	require.NotEmpty(t, patterns)
	assert.Equal(t, "simple_task", patterns[0].Name)
}
