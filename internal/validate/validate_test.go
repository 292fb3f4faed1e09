package validate

import (
	"strings"
	"testing"

	"github.com/pronghorn-cli/pronghorn/internal/xmlopt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *Validator {
	return New(xmlopt.BuiltinMappings())
}

func TestValidate_WellFormedSnippet(t *testing.T) {
	v := newValidator()

	result := v.Validate("<instructions><primary_directive>Create a function</primary_directive>" +
		"<constraints><must_include>error handling</must_include></constraints></instructions>")

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 4, result.TagCount)
	assert.Equal(t, 3, result.MaxDepth)
	assert.Equal(t, 3, result.SuggestedAgents)
}

func TestValidate_NotTagBounded(t *testing.T) {
	v := newValidator()

	result := v.Validate("just some prose")

	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "not bounded")
}

func TestValidate_UnbalancedTags(t *testing.T) {
	v := newValidator()

	result := v.Validate("<task><must>missing close</task>")

	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "parse error")
}

func TestValidate_UnknownTagWarning(t *testing.T) {
	v := newValidator()

	result := v.Validate("<task><frobnicate>x</frobnicate></task>")

	assert.True(t, result.IsValid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "frobnicate")
}

func TestValidate_DeepNestingWarning(t *testing.T) {
	v := newValidator()

	result := v.Validate("<task><step><step><step><step><step>deep</step></step></step></step></step></task>")

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "nesting depth") {
			found = true
		}
	}
	assert.True(t, found, "expected a nesting depth warning, got %v", result.Warnings)
}

func TestValidate_Memoized(t *testing.T) {
	v := newValidator()

	first := v.Validate("  <task>x</task>  ")
	second := v.Validate("<task>x</task>")

	// Trimmed content shares a memo key, so results are identical.
	assert.Equal(t, first, second)
}

func TestSuggestAgentCount(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		content  string
		tagCount int
		want     int
	}{
		{
			name:     "high complexity",
			score:    8,
			content:  "",
			tagCount: 0,
			want:     10,
		},
		{
			name:     "workflow with validation",
			score:    0,
			content:  "<workflow><validate>x</validate></workflow>",
			tagCount: 2,
			want:     10,
		},
		{
			name:     "workflow with examples",
			score:    0,
			content:  "<workflow><example>x</example></workflow>",
			tagCount: 2,
			want:     10,
		},
		{
			name:     "medium complexity",
			score:    4,
			content:  "",
			tagCount: 0,
			want:     5,
		},
		{
			name:     "many tags",
			score:    0,
			content:  "",
			tagCount: 7,
			want:     5,
		},
		{
			name:     "simple",
			score:    1,
			content:  "<task>x</task>",
			tagCount: 1,
			want:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestAgentCount(tt.score, tt.content, tt.tagCount)
			assert.Equal(t, tt.want, got)
			// Determinism: same inputs, same answer.
			assert.Equal(t, got, SuggestAgentCount(tt.score, tt.content, tt.tagCount))
		})
	}
}

func TestEstimateReduction_Capped(t *testing.T) {
	v := newValidator()

	content := ""
	for i := 0; i < 30; i++ {
		content += "<instructions>x</instructions>\n"
	}
	result := v.Validate(content)

	assert.Equal(t, 35.0, result.EstimatedReductionPct)
}

func TestValidate_NeverPanics(t *testing.T) {
	v := newValidator()

	inputs := []string{"", "<", ">", "<<>>", "<a", "a>", "<task>&bad;</task>"}
	for _, input := range inputs {
		assert.NotPanics(t, func() { v.Validate(input) }, "input: %q", input)
	}
}
