package xmlopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name:    "plain words",
			content: "hello world",
			want:    2,
		},
		{
			name:    "single tag",
			content: "<task>",
			want:    3, // <, task, >
		},
		{
			name:    "closing tag",
			content: "</task>",
			want:    4, // <, /, task, >
		},
		{
			name:    "tag with content",
			content: "<task>do the thing</task>",
			want:    10,
		},
		{
			name:    "underscored tag counts as one word",
			content: "<primary_directive>",
			want:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTokens(tt.content))
		})
	}
}

func TestEstimateTokens_EmptyString(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
}

func TestTokenStats_Saved(t *testing.T) {
	stats := TokenStats{Before: 100, After: 60}
	assert.Equal(t, 40, stats.Saved())
}

func TestTokenStats_PercentReduction(t *testing.T) {
	tests := []struct {
		name  string
		stats TokenStats
		want  float64
	}{
		{
			name:  "half",
			stats: TokenStats{Before: 100, After: 50},
			want:  50.0,
		},
		{
			name:  "no reduction",
			stats: TokenStats{Before: 100, After: 100},
			want:  0.0,
		},
		{
			name:  "zero before",
			stats: TokenStats{Before: 0, After: 0},
			want:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.PercentReduction())
		})
	}
}
