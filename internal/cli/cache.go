package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command.
func NewCacheCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show template cache contents and statistics",
		Example: `  pronghorn cache
  pronghorn cache -v
  pronghorn cache clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheShow(verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-entry details")
	cmd.AddCommand(NewCacheClearCmd())
	cmd.AddCommand(NewCacheSweepCmd())

	return cmd
}

// NewCacheClearCmd creates the 'cache clear' command.
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPipeline()
			if err != nil {
				return err
			}
			count := p.Cache().Len()
			p.Cache().Clear()
			printSuccess("Cleared %d cached templates", count)
			return nil
		},
	}
}

// NewCacheSweepCmd creates the 'cache sweep' command.
func NewCacheSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire old idle templates now",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPipeline()
			if err != nil {
				return err
			}
			removed := p.Cache().Sweep(true)
			printSuccess("Expired %d templates", removed)
			return nil
		},
	}
}

func runCacheShow(verbose bool) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	cache := p.Cache()
	stats := cache.Stats()

	fmt.Println(dim("TEMPLATE CACHE"))
	printInfo("entries", fmt.Sprintf("%d", cache.Len()))
	printInfo("size", fmt.Sprintf("%d bytes", cache.SizeBytes()))
	printInfo("hits", fmt.Sprintf("%d exact, %d pattern", stats.Hits, stats.PatternHits))
	printInfo("misses", fmt.Sprintf("%d", stats.Misses))
	printInfo("hit rate", fmt.Sprintf("%.1f%%", stats.HitRate()*100))
	printInfo("evictions", fmt.Sprintf("%d", stats.Evictions))
	printInfo("expirations", fmt.Sprintf("%d", stats.Expirations))

	if !verbose {
		return nil
	}

	entries := cache.Entries()
	if len(entries) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println(dim("ENTRIES (oldest first)"))
	for _, e := range entries {
		label := e.Pattern
		if label == "" {
			label = "unrecognized"
		}
		fmt.Printf("  %s %s\n", info(e.ID[:12]), titleCase(label))
		fmt.Printf("    %s %d tokens saved, accessed %d times\n",
			dim("·"), e.Metrics.OriginalTokens-e.Metrics.OptimizedTokens, e.AccessCount)
	}
	return nil
}
