package tcache

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pronghorn-cli/pronghorn/internal/pattern"
)

// PatternMatchThreshold is the minimum recognition confidence for the
// pattern-based fallback lookup.
const PatternMatchThreshold = 0.8

// Config holds cache capacity and expiry policy.
type Config struct {
	MaxEntries    int
	MaxBytes      int64
	MaxAge        time.Duration // entries older than this AND idle longer than MaxIdle expire
	MaxIdle       time.Duration
	SweepInterval time.Duration // minimum gap between expiry sweeps
}

// DefaultConfig returns the default capacity and expiry policy.
func DefaultConfig() Config {
	return Config{
		MaxEntries:    100,
		MaxBytes:      5 * 1024 * 1024,
		MaxAge:        24 * time.Hour,
		MaxIdle:       6 * time.Hour,
		SweepInterval: time.Hour,
	}
}

// Hit is a successful lookup. Exact distinguishes a key hit from the looser
// pattern-based fallback.
type Hit struct {
	Entry *Entry
	Exact bool
}

// Stats tracks cache effectiveness counters.
type Stats struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	PatternHits int64 `json:"pattern_hits"`
	Evictions   int64 `json:"evictions"`
	Expirations int64 `json:"expirations"`
}

// HitRate returns the fraction of lookups served from cache (exact and
// pattern hits combined).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.PatternHits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits+s.PatternHits) / float64(total)
}

// Cache is an in-memory template cache with JSON persistence. All state is
// process-local; the index file is a snapshot reloaded at construction.
type Cache struct {
	mu         sync.Mutex
	cfg        Config
	recognizer *pattern.Recognizer
	entries    map[string]*Entry
	order      []string // eviction order: oldest first, MRU at the tail
	totalBytes int64
	stats      Stats
	path       string // "" keeps the cache memory-only (tests)
	lastSweep  time.Time
	now        func() time.Time
}

// New creates a Cache backed by the index file at path. A missing or
// unreadable index starts the cache empty. Pass path="" for a memory-only
// cache.
func New(cfg Config, recognizer *pattern.Recognizer, path string) *Cache {
	c := &Cache{
		cfg:        cfg,
		recognizer: recognizer,
		entries:    make(map[string]*Entry),
		path:       path,
		now:        time.Now,
	}
	c.load()
	return c
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace and case so semantically identical inputs
// share one cache key. Inputs differing only in formatting collide into the
// same entry on purpose.
func Normalize(content string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(strings.ToLower(content), " "))
}

// Key returns the cache key for content: SHA-256 hex of the normalized form.
func Key(content string) string {
	sum := sha256.Sum256([]byte(Normalize(content)))
	return hex.EncodeToString(sum[:])
}

// Get looks content up by exact key, falling back to the first entry whose
// recognized pattern matches the content's pattern with high confidence
// (and matching context when hinted). First found wins, not best found;
// the fallback is a deliberately loose match.
func (c *Cache) Get(content, contextHint string) *Hit {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked(false)

	key := Key(content)
	if entry, ok := c.entries[key]; ok {
		c.touchLocked(entry)
		c.stats.Hits++
		c.persistLocked()
		return &Hit{Entry: entry, Exact: true}
	}

	match := c.recognizer.Recognize(content)
	if match.Confidence > PatternMatchThreshold {
		for _, id := range c.order {
			entry := c.entries[id]
			if entry.Pattern != match.Name {
				continue
			}
			if contextHint != "" && entry.ContextType != contextHint {
				continue
			}
			c.touchLocked(entry)
			c.stats.PatternHits++
			c.persistLocked()
			return &Hit{Entry: entry, Exact: false}
		}
	}

	c.stats.Misses++
	return nil
}

// Put stores an optimization result, evicting the oldest entries until both
// the entry-count and byte caps hold, then persists the index.
func (c *Cache) Put(content, optimized string, metrics Metrics, contextHint string) *Entry {
	match := c.recognizer.Recognize(content)

	now := c.now()
	entry := &Entry{
		ID:               Key(content),
		Pattern:          match.Name,
		OptimizedContent: optimized,
		CreatedAt:        now,
		LastAccessed:     now,
		AccessCount:      0,
		Metrics:          metrics,
		ContextType:      contextHint,
		Tags:             extractTags(content),
		SizeBytes:        int64(len(optimized)),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked(false)

	// An entry bigger than the byte cap can never fit; inserting it would
	// flush every other entry and still leave the cache over the limit.
	if c.cfg.MaxBytes > 0 && entry.SizeBytes > c.cfg.MaxBytes {
		return entry
	}

	// Replacing an existing key is an update, not an insert.
	if old, ok := c.entries[entry.ID]; ok {
		c.totalBytes -= old.SizeBytes
		c.removeFromOrder(entry.ID)
	}

	for len(c.order) > 0 &&
		(len(c.order)+1 > c.cfg.MaxEntries || c.totalBytes+entry.SizeBytes > c.cfg.MaxBytes) {
		c.evictOldestLocked()
	}

	c.entries[entry.ID] = entry
	c.order = append(c.order, entry.ID)
	c.totalBytes += entry.SizeBytes
	c.persistLocked()
	return entry
}

// touchLocked records a hit and moves the entry to the MRU position.
func (c *Cache) touchLocked(entry *Entry) {
	entry.LastAccessed = c.now()
	entry.AccessCount++
	c.removeFromOrder(entry.ID)
	c.order = append(c.order, entry.ID)
}

func (c *Cache) removeFromOrder(id string) {
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *Cache) evictOldestLocked() {
	id := c.order[0]
	c.order = c.order[1:]
	if entry, ok := c.entries[id]; ok {
		c.totalBytes -= entry.SizeBytes
		delete(c.entries, id)
		c.stats.Evictions++
	}
}

// Sweep removes expired entries. Unless force is set, the sweep runs at most
// once per configured interval. An entry expires only when it is BOTH older
// than MaxAge and idle longer than MaxIdle; a recently accessed old entry
// and an idle young entry both survive.
func (c *Cache) Sweep(force bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := c.sweepLocked(force)
	if removed > 0 {
		c.persistLocked()
	}
	return removed
}

func (c *Cache) sweepLocked(force bool) int {
	now := c.now()
	if !force && now.Sub(c.lastSweep) < c.cfg.SweepInterval {
		return 0
	}
	c.lastSweep = now

	removed := 0
	kept := c.order[:0]
	for _, id := range c.order {
		entry := c.entries[id]
		if entry.Age(now) > c.cfg.MaxAge && entry.Idle(now) > c.cfg.MaxIdle {
			c.totalBytes -= entry.SizeBytes
			delete(c.entries, id)
			c.stats.Expirations++
			removed++
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	return removed
}

// Clear drops all entries and persists the empty index.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	c.order = nil
	c.totalBytes = 0
	c.persistLocked()
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SizeBytes returns the total cached content size.
func (c *Cache) SizeBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalBytes
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Entries returns entries in eviction order (oldest first).
func (c *Cache) Entries() []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]*Entry, 0, len(c.order))
	for _, id := range c.order {
		entries = append(entries, c.entries[id])
	}
	return entries
}
