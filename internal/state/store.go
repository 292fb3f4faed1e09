// Package state persists session statistics to a JSON file. All access goes
// through a single mutex-guarded load-mutate-save critical section; this is
// the only concurrency control the tool needs under its single-process
// usage model.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SessionStats are the running counters and averages for this install.
type SessionStats struct {
	TotalRequests   int64     `json:"total_requests"`
	XMLRequests     int64     `json:"xml_requests"`
	AvgLatencyMs    float64   `json:"avg_latency_ms"`
	AvgReductionPct float64   `json:"avg_reduction_pct"`
	CacheHitRate    float64   `json:"cache_hit_rate"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Store is a JSON-backed stats store with an injected path so tests can use
// a temp directory (or no file at all).
type Store struct {
	mu   sync.Mutex
	path string
	mem  SessionStats // authoritative when path is empty
}

// NewStore creates a store backed by path. An empty path keeps the stats
// in-memory only for the lifetime of the process.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted stats. A missing or corrupt file yields zero
// stats, never an error.
func (s *Store) Load() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() SessionStats {
	if s.path == "" {
		return s.mem
	}
	var stats SessionStats
	data, err := os.ReadFile(s.path)
	if err != nil {
		return stats
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return SessionStats{}
	}
	return stats
}

// Update runs fn inside the read-modify-write critical section and persists
// the result.
func (s *Store) Update(fn func(*SessionStats)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.loadLocked()
	fn(&stats)
	stats.LastUpdated = time.Now()
	return s.saveLocked(stats)
}

// Reset zeroes the persisted stats.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(SessionStats{LastUpdated: time.Now()})
}

func (s *Store) saveLocked(stats SessionStats) error {
	s.mem = stats
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
