package tcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// indexFile is the on-disk shape of the cache.
type indexFile struct {
	Entries     []*Entry  `json:"entries"`
	Stats       Stats     `json:"stats"`
	LastUpdated time.Time `json:"last_updated"`
}

// load reconciles the on-disk index into memory at construction. Any read
// or decode failure starts the cache empty; entries with missing fields are
// skipped so old index files degrade instead of failing.
func (c *Cache) load() {
	if c.path == "" {
		return
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}

	var index indexFile
	if err := json.Unmarshal(data, &index); err != nil {
		return
	}

	for _, entry := range index.Entries {
		if entry == nil || entry.ID == "" || entry.OptimizedContent == "" || entry.CreatedAt.IsZero() {
			continue
		}
		if _, dup := c.entries[entry.ID]; dup {
			continue
		}
		c.entries[entry.ID] = entry
		c.order = append(c.order, entry.ID)
		c.totalBytes += entry.SizeBytes
	}
	c.stats = index.Stats
}

// persistLocked snapshots the full cache to the index file. Best effort:
// a failed write never breaks the caller, the in-memory cache stays
// authoritative until the next successful write.
func (c *Cache) persistLocked() {
	if c.path == "" {
		return
	}

	index := indexFile{
		Entries:     make([]*Entry, 0, len(c.order)),
		Stats:       c.stats,
		LastUpdated: c.now(),
	}
	for _, id := range c.order {
		index.Entries = append(index.Entries, c.entries[id])
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return
	}
	_ = os.WriteFile(c.path, data, 0644)
}
