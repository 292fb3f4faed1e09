package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPathsWithOverrides(t *testing.T) {
	p := NewPathsWithOverrides("/tmp/conf", "/tmp/cache")

	assert.Equal(t, filepath.Join("/tmp/conf", "config.yaml"), p.ConfigFile)
	assert.Equal(t, filepath.Join("/tmp/conf", "packs"), p.PersonalPacks)
	assert.Equal(t, filepath.Join("/tmp/cache", "templates.json"), p.CacheIndex)
	assert.Equal(t, filepath.Join("/tmp/cache", "session.json"), p.StatsFile)
}

func TestSyncedPacksDir(t *testing.T) {
	p := NewPathsWithOverrides("/tmp/conf", "/tmp/cache")

	assert.Equal(t, filepath.Join("/tmp/cache", "acme-packs-packs"), p.SyncedPacksDir("acme", "packs"))
}

func TestProjectPacksDir(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", ".pronghorn", "packs"), ProjectPacksDir("/repo"))
}
