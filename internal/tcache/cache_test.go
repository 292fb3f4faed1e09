package tcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pronghorn-cli/pronghorn/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, cfg Config) *Cache {
	t.Helper()
	return New(cfg, pattern.New(), "")
}

func testMetrics() Metrics {
	return Metrics{
		OriginalTokens:  33,
		OptimizedTokens: 18,
		ReductionPct:    45.5,
	}
}

func TestCache_RoundTrip(t *testing.T) {
	c := newTestCache(t, DefaultConfig())

	content := "<task>do the thing</task>"
	c.Put(content, "<task>do</task>", testMetrics(), "workflow")

	hit := c.Get(content, "workflow")
	require.NotNil(t, hit)
	assert.True(t, hit.Exact)
	assert.Equal(t, "<task>do</task>", hit.Entry.OptimizedContent)
	assert.Equal(t, testMetrics(), hit.Entry.Metrics)
	assert.Equal(t, "workflow", hit.Entry.ContextType)
	assert.Equal(t, int64(1), hit.Entry.AccessCount)
}

func TestCache_NormalizedKeyCollision(t *testing.T) {
	c := newTestCache(t, DefaultConfig())

	c.Put("<task>Do The Thing</task>", "opt", testMetrics(), "")

	// Same content modulo whitespace and case shares one entry.
	hit := c.Get("  <task>do   the thing</task>  ", "")
	require.NotNil(t, hit)
	assert.True(t, hit.Exact)
}

func TestCache_MissReturnsNil(t *testing.T) {
	c := newTestCache(t, DefaultConfig())

	assert.Nil(t, c.Get("<task>never seen</task>", ""))
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestCache_EvictionRespectsEntryCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEntries = 3
	c := newTestCache(t, cfg)

	c.Put("<task>one</task>", "1", testMetrics(), "")
	c.Put("<task>two</task>", "2", testMetrics(), "")
	c.Put("<task>three</task>", "3", testMetrics(), "")
	c.Put("<task>four</task>", "4", testMetrics(), "")

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, int64(1), c.Stats().Evictions)
	// The least recently inserted entry is the one that went.
	assert.Nil(t, c.Get("<task>one</task>", ""))
	assert.NotNil(t, c.Get("<task>four</task>", ""))
}

func TestCache_EvictionRespectsByteCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBytes = 10
	c := newTestCache(t, cfg)

	c.Put("<task>a</task>", "123456", testMetrics(), "")
	c.Put("<task>b</task>", "654321", testMetrics(), "")

	assert.Equal(t, 1, c.Len())
	assert.LessOrEqual(t, c.SizeBytes(), int64(10))
}

func TestCache_OversizedEntryNotCached(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBytes = 10
	c := newTestCache(t, cfg)

	c.Put("<task>small</task>", "123456", testMetrics(), "")
	c.Put("<task>huge</task>", "12345678901234567890", testMetrics(), "")

	// The oversized entry is dropped instead of flushing the cache.
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(6), c.SizeBytes())
	assert.Equal(t, int64(0), c.Stats().Evictions)
	assert.NotNil(t, c.Get("<task>small</task>", ""))
}

func TestCache_ExactHitMovesToMRU(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEntries = 2
	c := newTestCache(t, cfg)

	c.Put("<task>one</task>", "1", testMetrics(), "")
	c.Put("<task>two</task>", "2", testMetrics(), "")

	// Touch "one" so "two" becomes the eviction candidate.
	require.NotNil(t, c.Get("<task>one</task>", ""))

	c.Put("<task>three</task>", "3", testMetrics(), "")

	assert.NotNil(t, c.Get("<task>one</task>", ""))
	assert.Nil(t, c.Get("<task>two</task>", ""))
}

func TestCache_PatternFallback(t *testing.T) {
	c := newTestCache(t, DefaultConfig())

	c.Put("<workflow><step>build phase in sequence</step></workflow>", "opt-a", testMetrics(), "workflow")

	// Different content, same recognized pattern, confident match.
	hit := c.Get("<workflow><step>deploy phase in sequence</step></workflow>", "workflow")
	require.NotNil(t, hit)
	assert.False(t, hit.Exact)
	assert.Equal(t, "opt-a", hit.Entry.OptimizedContent)
	assert.Equal(t, int64(1), c.Stats().PatternHits)
}

func TestCache_PatternFallbackRespectsContext(t *testing.T) {
	c := newTestCache(t, DefaultConfig())

	c.Put("<workflow><step>build phase in sequence</step></workflow>", "opt-a", testMetrics(), "workflow")

	hit := c.Get("<workflow><step>deploy phase in sequence</step></workflow>", "analysis")
	assert.Nil(t, hit)
}

func TestCache_ExpiryDualCondition(t *testing.T) {
	cfg := DefaultConfig()
	c := newTestCache(t, cfg)

	base := time.Now()
	c.now = func() time.Time { return base }

	c.Put("<task>old but busy</task>", "1", testMetrics(), "")
	c.Put("<task>old and idle</task>", "2", testMetrics(), "")

	// Keep the first entry warm one hour ago; leave the second idle.
	c.now = func() time.Time { return base.Add(24 * time.Hour) }
	require.NotNil(t, c.Get("<task>old but busy</task>", ""))

	// 25h after creation: both are old, only one is idle past 6h.
	c.now = func() time.Time { return base.Add(25 * time.Hour) }
	removed := c.Sweep(true)

	assert.Equal(t, 1, removed)
	assert.NotNil(t, c.Get("<task>old but busy</task>", ""))
	assert.Nil(t, c.Get("<task>old and idle</task>", ""))
	assert.Equal(t, int64(1), c.Stats().Expirations)
}

func TestCache_SweepRateLimited(t *testing.T) {
	cfg := DefaultConfig()
	c := newTestCache(t, cfg)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.lastSweep = base

	c.Put("<task>x</task>", "1", testMetrics(), "")

	// Within the interval a non-forced sweep is a no-op even for
	// entries that would otherwise qualify.
	c.now = func() time.Time { return base.Add(30 * time.Minute) }
	assert.Equal(t, 0, c.Sweep(false))
}

func TestCache_Clear(t *testing.T) {
	c := newTestCache(t, DefaultConfig())

	c.Put("<task>x</task>", "1", testMetrics(), "")
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.SizeBytes())
}

func TestCache_PersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "templates.json")
	recognizer := pattern.New()

	c1 := New(DefaultConfig(), recognizer, path)
	c1.Put("<task>persist me</task>", "opt", testMetrics(), "workflow")

	c2 := New(DefaultConfig(), recognizer, path)
	hit := c2.Get("<task>persist me</task>", "workflow")
	require.NotNil(t, hit)
	assert.True(t, hit.Exact)
	assert.Equal(t, "opt", hit.Entry.OptimizedContent)
}

func TestCache_LoadSkipsMalformedEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.json")

	index := `{
  "entries": [
    {"id": "", "optimized_content": "no id", "created_at": "2026-01-02T00:00:00Z"},
    {"id": "good", "optimized_content": "kept", "created_at": "2026-01-02T00:00:00Z", "size_bytes": 4},
    {"id": "noclock", "optimized_content": "dropped"}
  ],
  "stats": {"hits": 7}
}`
	require.NoError(t, os.WriteFile(path, []byte(index), 0644))

	c := New(DefaultConfig(), pattern.New(), path)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(7), c.Stats().Hits)
}

func TestCache_CorruptIndexStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	c := New(DefaultConfig(), pattern.New(), path)
	assert.Equal(t, 0, c.Len())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Normalize("<Task>  X </Task>"), Normalize("<task> x </task>"))
	assert.NotEqual(t, Normalize("<task>x</task>"), Normalize("<task>y</task>"))
}

func TestKey_Stable(t *testing.T) {
	assert.Equal(t, Key("<task>x</task>"), Key("  <TASK>x</TASK> "))
}

func TestStats_HitRate(t *testing.T) {
	s := Stats{Hits: 6, PatternHits: 2, Misses: 2}
	assert.Equal(t, 0.8, s.HitRate())

	assert.Equal(t, 0.0, Stats{}.HitRate())
}
