// Package cli implements the pronghorn command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pronghorn-cli/pronghorn/internal/config"
	"github.com/pronghorn-cli/pronghorn/internal/errors"
	"github.com/pronghorn-cli/pronghorn/internal/pipeline"
	"github.com/pronghorn-cli/pronghorn/internal/tcache"
	"github.com/pronghorn-cli/pronghorn/internal/xmlopt"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var displayCaser = cases.Title(language.English)

var (
	// Version is set at build time.
	Version = "dev"

	// Output helpers.
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")

	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	info    = color.New(color.FgCyan).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pronghorn",
		Short: "An XML instruction optimizer for Claude Code",
		Long: `Pronghorn rewrites verbose XML instruction snippets into compact
Claude-friendly equivalents.

It validates structure, applies table-driven tag and phrase substitutions,
and caches optimized templates so repeated instructions come back instantly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewOptimizeCmd())
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewPatternsCmd())
	rootCmd.AddCommand(NewCacheCmd())
	rootCmd.AddCommand(NewStatsCmd())
	rootCmd.AddCommand(NewSyncCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pronghorn %s\n", Version)
		},
	}
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if pe, ok := err.(*errors.PronghornError); ok && pe.Hint != "" {
			fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err.Error())
			fmt.Fprintf(os.Stderr, "  %s\n", dim(pe.Hint))
		} else {
			fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err.Error())
		}
		return err
	}
	return nil
}

// printSuccess prints a success message.
func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successIcon, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", warningIcon, fmt.Sprintf(format, args...))
}

// printInfo prints a labeled info line.
func printInfo(label, value string) {
	fmt.Printf("  %s: %s\n", dim(label), value)
}

// readInput returns content from the first positional arg (a file path) or
// from stdin when no args are given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", errors.InputNotFound(args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.InputNotFound("stdin", err)
	}
	return string(data), nil
}

// findProjectRoot walks up from cwd to find a directory containing .git or
// .pronghorn. Falls back to cwd when no marker exists.
func findProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		if _, err := os.Stat(filepath.Join(dir, ".pronghorn")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// loadMappings builds the effective mapping tables from all pack layers:
// builtin < synced < personal < project.
func loadMappings(cfg *config.Config, paths *config.Paths) (xmlopt.Mappings, error) {
	var dirs []string
	if cfg.Packs.Source != "" {
		if owner, repo, err := config.ParseRepo(cfg.Packs.Source); err == nil {
			dirs = append(dirs, paths.SyncedPacksDir(owner, repo))
		}
	}
	dirs = append(dirs, paths.PersonalPacks)
	if root := findProjectRoot(); root != "" {
		dirs = append(dirs, config.ProjectPacksDir(root))
	}

	mappings, _, err := xmlopt.LoadMappings(dirs...)
	return mappings, err
}

// buildPipeline assembles the full processing pipeline from config and paths.
func buildPipeline() (*pipeline.Pipeline, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	paths := config.NewPaths()

	mappings, err := loadMappings(cfg, paths)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Config{
		Mappings:       mappings,
		Cache:          cacheConfig(cfg),
		CacheIndexPath: paths.CacheIndex,
		StatsPath:      paths.StatsFile,
		DefaultContext: cfg.Optimize.DefaultContext,
	}), nil
}

// cacheConfig converts config file settings to the cache policy.
func cacheConfig(cfg *config.Config) tcache.Config {
	return tcache.Config{
		MaxEntries:    cfg.Cache.MaxEntries,
		MaxBytes:      cfg.Cache.MaxBytes,
		MaxAge:        cfg.Cache.MaxAgeDuration(),
		MaxIdle:       cfg.Cache.MaxIdleDuration(),
		SweepInterval: cfg.Cache.SweepIntervalDuration(),
	}
}

// titleCase renders identifiers like "workflow_task" as "Workflow Task"
// for display.
func titleCase(s string) string {
	return displayCaser.String(strings.ReplaceAll(s, "_", " "))
}
