package cli

import (
	"fmt"

	"github.com/pronghorn-cli/pronghorn/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var force bool
	var source string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration",
		Example: `  pronghorn init
  pronghorn init --source acme-corp/prompt-packs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(force, source)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	cmd.Flags().StringVar(&source, "source", "", "GitHub repo (owner/repo) holding shared mapping packs")

	return cmd
}

func runInit(force bool, source string) error {
	paths := config.NewPaths()

	if config.Exists() && !force {
		printWarning("Config already exists at %s", paths.ConfigFile)
		fmt.Printf("Use %s to overwrite.\n", info("pronghorn init --force"))
		return nil
	}

	cfg := config.NewDefaultConfig()
	if source != "" {
		if _, _, err := config.ParseRepo(source); err != nil {
			return err
		}
		cfg.Packs.Source = source
	}

	if err := config.SaveTo(cfg, paths.ConfigFile); err != nil {
		return err
	}

	printSuccess("Config saved to %s", paths.ConfigFile)
	if source != "" {
		fmt.Printf("Run %s to fetch shared mapping packs.\n", info("pronghorn sync"))
	}
	return nil
}
