// Package config handles pronghorn configuration.
package config

import (
	"os"
	"path/filepath"
)

// Paths provides all pronghorn-related filesystem paths.
type Paths struct {
	ConfigDir     string // ~/.config/pronghorn
	CacheDir      string // ~/.cache/pronghorn
	ConfigFile    string // ~/.config/pronghorn/config.yaml
	PersonalPacks string // ~/.config/pronghorn/packs
	CacheIndex    string // ~/.cache/pronghorn/templates.json
	StatsFile     string // ~/.cache/pronghorn/session.json
}

// NewPaths creates Paths using ~/.config and ~/.cache directories.
// We use these paths explicitly for cross-platform consistency rather than
// platform-specific defaults (like ~/Library/Application Support on macOS).
func NewPaths() *Paths {
	home := os.Getenv("HOME")
	configDir := filepath.Join(home, ".config", "pronghorn")
	cacheDir := filepath.Join(home, ".cache", "pronghorn")
	return newPaths(configDir, cacheDir)
}

// NewPathsWithOverrides allows overriding directories for testing.
func NewPathsWithOverrides(configDir, cacheDir string) *Paths {
	return newPaths(configDir, cacheDir)
}

func newPaths(configDir, cacheDir string) *Paths {
	return &Paths{
		ConfigDir:     configDir,
		CacheDir:      cacheDir,
		ConfigFile:    filepath.Join(configDir, "config.yaml"),
		PersonalPacks: filepath.Join(configDir, "packs"),
		CacheIndex:    filepath.Join(cacheDir, "templates.json"),
		StatsFile:     filepath.Join(cacheDir, "session.json"),
	}
}

// SyncedPacksDir returns the directory for packs fetched from a source repo.
func (p *Paths) SyncedPacksDir(owner, repo string) string {
	return filepath.Join(p.CacheDir, owner+"-"+repo+"-packs")
}

// ProjectPacksDir returns the path for project-local mapping packs.
// This is relative to the project root (.pronghorn/packs/).
func ProjectPacksDir(projectRoot string) string {
	return filepath.Join(projectRoot, ".pronghorn", "packs")
}
