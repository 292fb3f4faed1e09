package xmlopt

import (
	"regexp"
	"strings"
)

// Context labels understood by the optimizer.
const (
	ContextCodeGeneration = "code_generation"
	ContextAnalysis       = "analysis"
	ContextWorkflow       = "workflow"
)

// Contexts lists all known context labels.
func Contexts() []string {
	return []string{ContextCodeGeneration, ContextAnalysis, ContextWorkflow}
}

var contextKeywords = []struct {
	context  string
	keywords []string
}{
	{ContextWorkflow, []string{"workflow", "step", "phase", "sequence"}},
	{ContextCodeGeneration, []string{"function", "implement", "code", "class", "method"}},
	{ContextAnalysis, []string{"analyze", "analysis", "review", "evaluate", "assess"}},
}

// DetectContext guesses a context label from keyword occurrences. The label
// with the most keyword hits wins; earlier entries win ties. Returns "" when
// nothing matches.
func DetectContext(text string) string {
	lower := strings.ToLower(text)

	best := ""
	bestCount := 0
	for _, ck := range contextKeywords {
		count := 0
		for _, kw := range ck.keywords {
			count += strings.Count(lower, kw)
		}
		if count > bestCount {
			best = ck.context
			bestCount = count
		}
	}
	return best
}

type contextRule struct {
	re          *regexp.Regexp
	replacement string
}

var contextPatterns = map[string][]contextRule{
	ContextCodeGeneration: {
		{regexp.MustCompile(`(?i)create a (?:new )?function (?:that|to|which)`), "write fn to"},
		{regexp.MustCompile(`(?i)generate code (?:that|to|which)`), "code to"},
		{regexp.MustCompile(`(?i)write a (?:piece of )?code`), "code"},
	},
	ContextAnalysis: {
		{regexp.MustCompile(`(?i)perform an? (?:detailed |thorough )?analysis of`), "analyze"},
		{regexp.MustCompile(`(?i)review the following`), "review"},
		{regexp.MustCompile(`(?i)provide an? assessment of`), "assess"},
	},
	ContextWorkflow: {
		{regexp.MustCompile(`(?i)execute the following steps`), "steps"},
		{regexp.MustCompile(`(?i)complete (?:all of )?the following tasks`), "tasks"},
		{regexp.MustCompile(`(?i)\bstep (\d+)\s*[:.]`), "$1."},
	},
}

// applyContextPatterns applies the regex rewrites scoped to a context.
// Unknown or empty contexts are a no-op.
func applyContextPatterns(text, context string) string {
	for _, rule := range contextPatterns[context] {
		text = rule.re.ReplaceAllString(text, rule.replacement)
	}
	return text
}
