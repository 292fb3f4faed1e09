package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pronghorn-cli/pronghorn/internal/errors"
	"gopkg.in/yaml.v3"
)

// CacheConfig contains template cache settings.
type CacheConfig struct {
	MaxEntries    int    `yaml:"max_entries,omitempty"`    // Entry count cap (default: 100)
	MaxBytes      int64  `yaml:"max_bytes,omitempty"`      // Total content byte cap (default: 5MB)
	MaxAge        string `yaml:"max_age,omitempty"`        // e.g., "24h"
	MaxIdle       string `yaml:"max_idle,omitempty"`       // e.g., "6h"
	SweepInterval string `yaml:"sweep_interval,omitempty"` // e.g., "1h"
}

// PacksConfig contains mapping pack settings.
type PacksConfig struct {
	// Source is a "owner/repo" GitHub repository holding shared mapping packs.
	Source string `yaml:"source,omitempty"`
	// Path is the directory within the source repo (default: "packs").
	Path string `yaml:"path,omitempty"`
}

// OptimizeConfig contains optimizer settings.
type OptimizeConfig struct {
	DefaultContext string `yaml:"default_context,omitempty"` // code_generation | analysis | workflow
}

// Config represents the pronghorn configuration file.
type Config struct {
	Version  int            `yaml:"version"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Packs    PacksConfig    `yaml:"packs,omitempty"`
	Optimize OptimizeConfig `yaml:"optimize,omitempty"`
}

// Default values.
const (
	DefaultVersion       = 1
	DefaultMaxEntries    = 100
	DefaultMaxBytes      = 5 * 1024 * 1024
	DefaultMaxAge        = "24h"
	DefaultMaxIdle       = "6h"
	DefaultSweepInterval = "1h"
	DefaultPacksPath     = "packs"
)

var validContexts = map[string]bool{
	"":                true,
	"code_generation": true,
	"analysis":        true,
	"workflow":        true,
}

// Load reads and validates config from the default location.
func Load() (*Config, error) {
	paths := NewPaths()
	return LoadFrom(paths.ConfigFile)
}

// LoadFrom reads and validates config from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to read config", "", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to parse config YAML", "Check config syntax", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault returns the config at the default location, or a default
// config if none exists. Invalid configs still return an error.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if e, ok := err.(*errors.PronghornError); ok && e.Code == errors.ErrConfigNotFound {
			return NewDefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes config to the default location.
func Save(cfg *Config) error {
	paths := NewPaths()
	return SaveTo(cfg, paths.ConfigFile)
}

// SaveTo writes config to a specific path.
func SaveTo(cfg *Config, path string) error {
	cfg.applyDefaults()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to marshal config", "", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to create config directory", "", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks config for required fields and valid values.
func (c *Config) Validate() error {
	for _, d := range []struct {
		name, value string
	}{
		{"cache.max_age", c.Cache.MaxAge},
		{"cache.max_idle", c.Cache.MaxIdle},
		{"cache.sweep_interval", c.Cache.SweepInterval},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("invalid %s format, use Go duration format (e.g., 24h)", d.name))
		}
	}

	if c.Cache.MaxEntries < 0 {
		return errors.ConfigInvalid("cache.max_entries must not be negative")
	}
	if c.Cache.MaxBytes < 0 {
		return errors.ConfigInvalid("cache.max_bytes must not be negative")
	}

	if !validContexts[c.Optimize.DefaultContext] {
		return errors.ConfigInvalid("optimize.default_context must be code_generation, analysis, or workflow")
	}

	if c.Packs.Source != "" {
		if _, _, err := ParseRepo(c.Packs.Source); err != nil {
			return errors.ConfigInvalid(err.Error())
		}
	}

	return nil
}

// applyDefaults sets default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultMaxEntries
	}
	if c.Cache.MaxBytes == 0 {
		c.Cache.MaxBytes = DefaultMaxBytes
	}
	if c.Cache.MaxAge == "" {
		c.Cache.MaxAge = DefaultMaxAge
	}
	if c.Cache.MaxIdle == "" {
		c.Cache.MaxIdle = DefaultMaxIdle
	}
	if c.Cache.SweepInterval == "" {
		c.Cache.SweepInterval = DefaultSweepInterval
	}
	if c.Packs.Path == "" {
		c.Packs.Path = DefaultPacksPath
	}
}

// NewDefaultConfig creates a config with default values.
func NewDefaultConfig() *Config {
	cfg := &Config{Version: DefaultVersion}
	cfg.applyDefaults()
	return cfg
}

// Exists checks if a config file exists at the default location.
func Exists() bool {
	paths := NewPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// MaxAgeDuration returns the cache max age as a time.Duration.
func (c *CacheConfig) MaxAgeDuration() time.Duration {
	return parseDurationOr(c.MaxAge, DefaultMaxAge)
}

// MaxIdleDuration returns the cache max idle as a time.Duration.
func (c *CacheConfig) MaxIdleDuration() time.Duration {
	return parseDurationOr(c.MaxIdle, DefaultMaxIdle)
}

// SweepIntervalDuration returns the expiry sweep interval as a time.Duration.
func (c *CacheConfig) SweepIntervalDuration() time.Duration {
	return parseDurationOr(c.SweepInterval, DefaultSweepInterval)
}

func parseDurationOr(value, fallback string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// ParseRepo splits an "owner/repo" string into its parts.
func ParseRepo(repo string) (string, string, error) {
	repo = strings.TrimPrefix(repo, "github.com/")
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s (use owner/repo)", repo)
	}
	return parts[0], parts[1], nil
}
