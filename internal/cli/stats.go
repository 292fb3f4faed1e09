package cli

import (
	"fmt"

	"github.com/pronghorn-cli/pronghorn/internal/config"
	"github.com/pronghorn-cli/pronghorn/internal/state"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session statistics",
		Long:  `Shows the running averages tracked across optimize runs: request counts, latency, reduction, and cache hit rate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsShow()
		},
	}

	cmd.AddCommand(NewStatsResetCmd())
	return cmd
}

// NewStatsResetCmd creates the 'stats reset' command.
func NewStatsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Zero the session statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := config.NewPaths()
			if err := state.NewStore(paths.StatsFile).Reset(); err != nil {
				return err
			}
			printSuccess("Session statistics reset")
			return nil
		},
	}
}

func runStatsShow() error {
	paths := config.NewPaths()
	stats := state.NewStore(paths.StatsFile).Load()

	fmt.Println(dim("SESSION STATISTICS"))
	printInfo("total requests", fmt.Sprintf("%d", stats.TotalRequests))
	printInfo("xml requests", fmt.Sprintf("%d", stats.XMLRequests))
	printInfo("avg latency", fmt.Sprintf("%.3f ms", stats.AvgLatencyMs))
	printInfo("avg reduction", fmt.Sprintf("%.1f%%", stats.AvgReductionPct))
	printInfo("cache hit rate", fmt.Sprintf("%.1f%%", stats.CacheHitRate*100))
	if !stats.LastUpdated.IsZero() {
		printInfo("last updated", stats.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	return nil
}
