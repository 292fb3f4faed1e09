// Package pipeline composes detection, validation, optimization, and
// caching into a single call with running session statistics.
package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/pronghorn-cli/pronghorn/internal/pattern"
	"github.com/pronghorn-cli/pronghorn/internal/state"
	"github.com/pronghorn-cli/pronghorn/internal/tcache"
	"github.com/pronghorn-cli/pronghorn/internal/validate"
	"github.com/pronghorn-cli/pronghorn/internal/xmlopt"
)

// Performance category labels. Informational only; nothing is enforced.
const (
	CategoryZeroImpact    = "zero_impact"    // < 0.1ms
	CategoryMinimalImpact = "minimal_impact" // < 0.5ms
	CategoryAcceptable    = "acceptable"     // < 1.0ms
	CategorySlow          = "slow"
)

// Options tune a single Process call.
type Options struct {
	NoCache bool // skip cache read and write
	Force   bool // skip cache read, still write
}

// Result is the outcome of one Process call.
type Result struct {
	IsXML               bool
	IsValid             bool
	Optimized           string
	Validation          *validate.Result
	Metrics             *tcache.Metrics
	Context             string
	CacheHit            bool
	ExactHit            bool
	Duration            time.Duration
	PerformanceCategory string
	Error               string // set when processing was recovered, never fatal
}

// Config wires the pipeline's pieces together.
type Config struct {
	Mappings       xmlopt.Mappings
	Cache          tcache.Config
	CacheIndexPath string // "" = memory-only cache
	StatsPath      string // "" = memory-only stats
	DefaultContext string
}

// Pipeline is the orchestrator. Safe for use from a single process;
// construct once and reuse.
type Pipeline struct {
	validator      *validate.Validator
	optimizer      *xmlopt.Optimizer
	recognizer     *pattern.Recognizer
	cache          *tcache.Cache
	store          *state.Store
	knownTags      []string
	defaultContext string
}

// New builds a Pipeline from config.
func New(cfg Config) *Pipeline {
	recognizer := pattern.New()
	return &Pipeline{
		validator:      validate.New(cfg.Mappings),
		optimizer:      xmlopt.New(cfg.Mappings),
		recognizer:     recognizer,
		cache:          tcache.New(cfg.Cache, recognizer, cfg.CacheIndexPath),
		store:          state.NewStore(cfg.StatsPath),
		knownTags:      knownTagList(cfg.Mappings),
		defaultContext: cfg.DefaultContext,
	}
}

func knownTagList(m xmlopt.Mappings) []string {
	seen := m.ShortTags()
	for name := range m.Tags {
		seen[name] = true
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Cache exposes the template cache for inspection commands.
func (p *Pipeline) Cache() *tcache.Cache { return p.cache }

// Store exposes the session stats store.
func (p *Pipeline) Store() *state.Store { return p.store }

// Recognizer exposes the pattern recognizer.
func (p *Pipeline) Recognizer() *pattern.Recognizer { return p.recognizer }

// Validator exposes the validator.
func (p *Pipeline) Validator() *validate.Validator { return p.validator }

// Process runs detection, validation, optimization, and caching for one
// input. It never panics out: any unexpected failure degrades to a
// pass-through result with the input returned unchanged.
func (p *Pipeline) Process(input, contextHint string, opts Options) (result *Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = &Result{
				IsXML:     false,
				Optimized: input,
				Error:     fmt.Sprintf("recovered: %v", r),
			}
			result.Duration = time.Since(start)
			result.PerformanceCategory = Categorize(result.Duration)
		}
	}()

	if contextHint == "" {
		contextHint = p.defaultContext
	}

	// Fast path: not XML-shaped, return untouched with no cache interaction.
	if !IsXMLShaped(input, p.knownTags) {
		result = &Result{
			IsXML:     false,
			Optimized: input,
			Duration:  time.Since(start),
		}
		result.PerformanceCategory = Categorize(result.Duration)
		p.recordRequest(result)
		return result
	}

	validation := p.validator.Validate(input)
	result = &Result{
		IsXML:      true,
		IsValid:    validation.IsValid,
		Validation: &validation,
	}

	if !opts.NoCache && !opts.Force {
		if hit := p.cache.Get(input, contextHint); hit != nil {
			result.Optimized = hit.Entry.OptimizedContent
			metrics := hit.Entry.Metrics
			result.Metrics = &metrics
			result.Context = hit.Entry.ContextType
			result.CacheHit = true
			result.ExactHit = hit.Exact
			result.Duration = time.Since(start)
			result.PerformanceCategory = Categorize(result.Duration)
			p.recordRequest(result)
			return result
		}
	}

	opt := p.optimizer.Optimize(input, contextHint)
	metrics := tcache.Metrics{
		OriginalTokens:     opt.Stats.Before,
		OptimizedTokens:    opt.Stats.After,
		ReductionPct:       opt.Stats.PercentReduction(),
		OptimizationTimeMs: float64(opt.Duration.Microseconds()) / 1000.0,
		Techniques:         opt.Techniques,
		SemanticScore:      opt.SemanticScore,
		CompatibilityScore: opt.CompatibilityScore,
	}

	result.Optimized = opt.Optimized
	result.Metrics = &metrics
	result.Context = opt.Context

	if !opts.NoCache {
		p.cache.Put(input, opt.Optimized, metrics, opt.Context)
	}

	result.Duration = time.Since(start)
	result.PerformanceCategory = Categorize(result.Duration)
	p.recordRequest(result)
	return result
}

// Categorize buckets a processing duration into a performance label.
func Categorize(d time.Duration) string {
	switch {
	case d < 100*time.Microsecond:
		return CategoryZeroImpact
	case d < 500*time.Microsecond:
		return CategoryMinimalImpact
	case d < time.Millisecond:
		return CategoryAcceptable
	default:
		return CategorySlow
	}
}

// recordRequest folds one result into the persisted running averages using
// the incremental mean update: new = (old*(n-1) + value) / n.
func (p *Pipeline) recordRequest(result *Result) {
	hitRate := p.cache.Stats().HitRate()

	_ = p.store.Update(func(s *state.SessionStats) {
		s.TotalRequests++
		n := float64(s.TotalRequests)
		latencyMs := float64(result.Duration.Microseconds()) / 1000.0
		s.AvgLatencyMs = (s.AvgLatencyMs*(n-1) + latencyMs) / n

		if result.IsXML {
			s.XMLRequests++
			if result.Metrics != nil {
				xn := float64(s.XMLRequests)
				s.AvgReductionPct = (s.AvgReductionPct*(xn-1) + result.Metrics.ReductionPct) / xn
			}
		}
		s.CacheHitRate = hitRate
	})
}
