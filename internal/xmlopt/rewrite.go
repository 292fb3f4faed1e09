package xmlopt

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Technique names reported in Result.Techniques.
const (
	TechniqueTagSubstitution   = "tag_substitution"
	TechniqueWhitespaceCleanup = "whitespace_cleanup"
	TechniquePhraseCompression = "phrase_compression"
	TechniqueContextPatterns   = "context_patterns"
	TechniqueAbbreviations     = "abbreviations"
	TechniqueFinalCleanup      = "final_cleanup"
)

// Result is the outcome of one optimization pass.
type Result struct {
	Optimized          string
	Duration           time.Duration
	Stats              TokenStats
	Techniques         []string
	Context            string
	SemanticScore      float64
	CompatibilityScore float64
}

type phraseRule struct {
	re          *regexp.Regexp
	replacement string
}

// Optimizer rewrites XML instruction text using compiled substitution rules.
// All rules are compiled once at construction; Optimize is read-only and
// safe for concurrent use.
type Optimizer struct {
	mappings Mappings
	tagRe    *regexp.Regexp
	phrases  []phraseRule
	abbrevs  []phraseRule
}

// New creates an Optimizer from the given mapping tables.
func New(mappings Mappings) *Optimizer {
	return &Optimizer{
		mappings: mappings,
		tagRe:    compileTagPattern(mappings.Tags),
		phrases:  compilePhraseRules(mappings.Phrases),
		abbrevs:  compileAbbrevRules(mappings.Abbreviations),
	}
}

// NewDefault creates an Optimizer with the builtin mapping tables.
func NewDefault() *Optimizer {
	return New(BuiltinMappings())
}

// compileTagPattern builds a single alternation regex over all mapped tag
// names. One combined pass means no substitution can ever see the output of
// another, which sequential per-tag replacement cannot guarantee.
func compileTagPattern(tags map[string]string) *regexp.Regexp {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, regexp.QuoteMeta(name))
	}
	// Longest-first so e.g. "instructions" is never matched as "instruction".
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return regexp.MustCompile(`(?i)<(/?)(` + strings.Join(names, "|") + `)\s*>`)
}

// compilePhraseRules builds case-insensitive literal replacement rules,
// longest phrase first so overlapping phrases resolve deterministically.
func compilePhraseRules(table map[string]string) []phraseRule {
	rules := make([]phraseRule, 0, len(table))
	for _, k := range sortedKeysLongestFirst(table) {
		rules = append(rules, phraseRule{
			re:          regexp.MustCompile(`(?i)` + regexp.QuoteMeta(k)),
			replacement: table[k],
		})
	}
	return rules
}

// compileAbbrevRules builds word-bounded replacement rules so "function"
// never matches inside "functionality". The \b markers must stay outside
// QuoteMeta or they would be escaped into literals.
func compileAbbrevRules(table map[string]string) []phraseRule {
	rules := make([]phraseRule, 0, len(table))
	for _, k := range sortedKeysLongestFirst(table) {
		rules = append(rules, phraseRule{
			re:          regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`),
			replacement: table[k],
		})
	}
	return rules
}

func sortedKeysLongestFirst(table map[string]string) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Optimize runs the full rewrite pipeline. It never fails: if the rewritten
// text would estimate to more tokens than the input, the input is returned
// unchanged with zero reduction.
func (o *Optimizer) Optimize(text, contextHint string) Result {
	start := time.Now()

	result := Result{
		Stats:   TokenStats{Before: EstimateTokens(text)},
		Context: contextHint,
	}
	if result.Context == "" {
		result.Context = DetectContext(text)
	}

	current := text

	current = o.applyPass(current, &result, TechniqueTagSubstitution, o.substituteTags)
	current = o.applyPass(current, &result, TechniqueWhitespaceCleanup, cleanupWhitespace)
	current = o.applyPass(current, &result, TechniquePhraseCompression, o.compressPhrases)
	current = o.applyPass(current, &result, TechniqueContextPatterns, func(s string) string {
		return applyContextPatterns(s, result.Context)
	})
	current = o.applyPass(current, &result, TechniqueAbbreviations, o.abbreviate)
	current = o.applyPass(current, &result, TechniqueFinalCleanup, finalCleanup)

	after := EstimateTokens(current)
	if after > result.Stats.Before {
		// Rewrites made things worse; fall back to the original untouched.
		current = text
		after = result.Stats.Before
		result.Techniques = nil
	}

	result.Optimized = current
	result.Stats.After = after
	result.SemanticScore = semanticScore(text, current, o.mappings.Abbreviations)
	result.CompatibilityScore = o.compatibilityScore(current)
	result.Duration = time.Since(start)
	return result
}

func (o *Optimizer) applyPass(text string, result *Result, technique string, pass func(string) string) string {
	out := pass(text)
	if out != text {
		result.Techniques = append(result.Techniques, technique)
	}
	return out
}

// substituteTags rewrites verbose tag names to their short forms in a single
// pass. Tags mapped to "" are stripped, keeping their inner content.
func (o *Optimizer) substituteTags(text string) string {
	if o.tagRe == nil {
		return text
	}
	return o.tagRe.ReplaceAllStringFunc(text, func(match string) string {
		sub := o.tagRe.FindStringSubmatch(match)
		slash, name := sub[1], strings.ToLower(sub[2])
		short, ok := o.mappings.Tags[name]
		if !ok {
			return match
		}
		if short == "" {
			return ""
		}
		return "<" + slash + short + ">"
	})
}

var (
	interTagWhitespace = regexp.MustCompile(`>\s+<`)
	blankLines         = regexp.MustCompile(`\n{3,}`)
	trailingSpace      = regexp.MustCompile(`[ \t]+\n`)
)

// cleanupWhitespace collapses whitespace between adjacent tags and removes
// blank lines and trailing spaces.
func cleanupWhitespace(text string) string {
	text = interTagWhitespace.ReplaceAllString(text, "><")
	text = trailingSpace.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return text
}

func (o *Optimizer) compressPhrases(text string) string {
	for _, rule := range o.phrases {
		text = rule.re.ReplaceAllString(text, rule.replacement)
	}
	return text
}

// protectedTags mark primary instructions; terms near them are left alone so
// abbreviation never mangles the main directive.
var protectedTags = []string{"<task>", "<analyze>", "<implement>"}

const protectedWindow = 80

// abbreviate applies technical-term abbreviations outside protected windows.
func (o *Optimizer) abbreviate(text string) string {
	windows := protectedRanges(text)

	for _, rule := range o.abbrevs {
		matches := rule.re.FindAllStringIndex(text, -1)
		if matches == nil {
			continue
		}
		var b strings.Builder
		b.Grow(len(text))
		last := 0
		for _, m := range matches {
			if inRanges(m[0], windows) {
				continue
			}
			b.WriteString(text[last:m[0]])
			b.WriteString(rule.replacement)
			last = m[1]
		}
		b.WriteString(text[last:])
		if b.Len() > 0 && last > 0 {
			text = b.String()
			// Ranges shift after replacement; recompute for the next term.
			windows = protectedRanges(text)
		}
	}
	return text
}

func protectedRanges(text string) [][2]int {
	var ranges [][2]int
	lower := strings.ToLower(text)
	for _, tag := range protectedTags {
		offset := 0
		for {
			i := strings.Index(lower[offset:], tag)
			if i < 0 {
				break
			}
			at := offset + i
			lo := at - protectedWindow
			if lo < 0 {
				lo = 0
			}
			hi := at + len(tag) + protectedWindow
			if hi > len(text) {
				hi = len(text)
			}
			ranges = append(ranges, [2]int{lo, hi})
			offset = at + len(tag)
		}
	}
	return ranges
}

func inRanges(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

var multiSpace = regexp.MustCompile(`[ \t]{2,}`)

func finalCleanup(text string) string {
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

var wordPattern = regexp.MustCompile(`\b\w{4,}\b`)

// semanticScore estimates how much content survived the rewrite: the
// fraction of distinct non-tag words of the original still present in the
// optimized text, counting abbreviated forms as preserved.
func semanticScore(original, optimized string, abbrevs map[string]string) float64 {
	stripped := stripTags(original)
	words := wordPattern.FindAllString(stripped, -1)
	if len(words) == 0 {
		return 1.0
	}

	distinct := make(map[string]bool)
	for _, w := range words {
		distinct[strings.ToLower(w)] = true
	}

	optimizedLower := strings.ToLower(optimized)
	preserved := 0
	for w := range distinct {
		if strings.Contains(optimizedLower, w) {
			preserved++
			continue
		}
		if short, ok := abbrevs[w]; ok && strings.Contains(optimizedLower, strings.ToLower(short)) {
			preserved++
		}
	}

	score := float64(preserved) / float64(len(distinct))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

var tagPattern = regexp.MustCompile(`</?[^<>]+>`)

func stripTags(text string) string {
	return tagPattern.ReplaceAllString(text, " ")
}

// compatibilityScore estimates how Claude-friendly the output shape is.
// Verbose tag names remaining drag the score down; compact known tags raise it.
func (o *Optimizer) compatibilityScore(optimized string) float64 {
	lower := strings.ToLower(optimized)

	score := 0.5
	verboseRemaining := false
	for name := range o.mappings.Tags {
		if strings.Contains(lower, "<"+name+">") {
			verboseRemaining = true
			break
		}
	}
	if !verboseRemaining {
		score += 0.3
	}

	shortBonus := 0.0
	for short := range o.mappings.ShortTags() {
		if strings.Contains(lower, "<"+short+">") {
			shortBonus += 0.05
		}
	}
	if shortBonus > 0.2 {
		shortBonus = 0.2
	}
	score += shortBonus

	if score > 1.0 {
		score = 1.0
	}
	return score
}
