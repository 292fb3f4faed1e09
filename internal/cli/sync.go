package cli

import (
	"context"
	"fmt"

	"github.com/pronghorn-cli/pronghorn/internal/config"
	"github.com/pronghorn-cli/pronghorn/internal/errors"
	"github.com/pronghorn-cli/pronghorn/internal/github"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch shared mapping packs from the configured GitHub repo",
		Long: `Downloads YAML mapping packs from the repo configured under packs.source
and layers them over the builtin substitution tables on the next optimize.`,
		Example: `  pronghorn sync`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context())
		},
	}
}

func runSync(ctx context.Context) error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	if cfg.Packs.Source == "" {
		return errors.NoPackSource()
	}

	owner, repo, err := config.ParseRepo(cfg.Packs.Source)
	if err != nil {
		return errors.ConfigInvalid(err.Error())
	}

	client, err := github.NewClient()
	if err != nil {
		return errors.PackFetchFailed(cfg.Packs.Source, err)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	exists, err := client.RepoExists(ctx, owner, repo)
	if err != nil {
		return errors.PackFetchFailed(cfg.Packs.Source, err)
	}
	if !exists {
		return errors.PackFetchFailed(cfg.Packs.Source, fmt.Errorf("repository not found"))
	}

	paths := config.NewPaths()
	targetDir := paths.SyncedPacksDir(owner, repo)

	result, err := client.SyncPacks(ctx, owner, repo, cfg.Packs.Path, targetDir)
	if err != nil {
		return errors.PackFetchFailed(cfg.Packs.Source, err)
	}

	if len(result.Fetched) == 0 {
		printWarning("No mapping packs found in %s/%s", cfg.Packs.Source, cfg.Packs.Path)
		return nil
	}

	printSuccess("Fetched %d mapping packs from %s", len(result.Fetched), cfg.Packs.Source)
	for _, name := range result.Fetched {
		fmt.Printf("  %s\n", info(name))
	}
	if len(result.Skipped) > 0 {
		fmt.Printf("%s skipped %d non-pack entries\n", dim("·"), len(result.Skipped))
	}
	return nil
}
