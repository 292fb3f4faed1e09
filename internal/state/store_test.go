package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.json"))

	stats := s.Load()
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.True(t, stats.LastUpdated.IsZero())
}

func TestStore_UpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats", "session.json")
	s := NewStore(path)

	err := s.Update(func(stats *SessionStats) {
		stats.TotalRequests = 3
		stats.XMLRequests = 2
		stats.AvgReductionPct = 41.5
	})
	require.NoError(t, err)

	// A fresh store over the same path sees the saved values.
	reloaded := NewStore(path).Load()
	assert.Equal(t, int64(3), reloaded.TotalRequests)
	assert.Equal(t, int64(2), reloaded.XMLRequests)
	assert.Equal(t, 41.5, reloaded.AvgReductionPct)
	assert.False(t, reloaded.LastUpdated.IsZero())
}

func TestStore_UpdateAccumulates(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.json"))

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Update(func(stats *SessionStats) {
			stats.TotalRequests++
		}))
	}

	assert.Equal(t, int64(4), s.Load().TotalRequests)
}

func TestStore_MemoryOnly(t *testing.T) {
	s := NewStore("")

	require.NoError(t, s.Update(func(stats *SessionStats) {
		stats.TotalRequests = 9
	}))

	assert.Equal(t, int64(9), s.Load().TotalRequests)
}

func TestStore_CorruptFileYieldsZeroStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	s := NewStore(path)
	assert.Equal(t, SessionStats{}, s.Load())

	// Updates recover the file.
	require.NoError(t, s.Update(func(stats *SessionStats) {
		stats.TotalRequests = 1
	}))
	assert.Equal(t, int64(1), s.Load().TotalRequests)
}

func TestStore_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewStore(path)

	require.NoError(t, s.Update(func(stats *SessionStats) {
		stats.TotalRequests = 12
		stats.AvgLatencyMs = 0.4
	}))
	require.NoError(t, s.Reset())

	stats := s.Load()
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, 0.0, stats.AvgLatencyMs)
	assert.False(t, stats.LastUpdated.IsZero())
}
