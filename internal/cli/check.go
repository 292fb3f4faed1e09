package cli

import (
	"fmt"

	"github.com/pronghorn-cli/pronghorn/internal/config"
	"github.com/pronghorn-cli/pronghorn/internal/validate"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate an XML instruction snippet",
		Long: `Runs the heuristic structural checks on a snippet without optimizing it:
balanced tags, nesting depth, unknown tag names, complexity scoring, and a
suggested parallel agent count.`,
		Example: `  pronghorn check prompt.xml
  cat prompt.xml | pronghorn check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			return runCheck(input)
		},
	}
}

func runCheck(input string) error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	paths := config.NewPaths()
	mappings, err := loadMappings(cfg, paths)
	if err != nil {
		return err
	}

	result := validate.New(mappings).Validate(input)

	if result.IsValid {
		printSuccess("structure looks valid")
	} else {
		for _, e := range result.Errors {
			fmt.Printf("%s %s\n", errorIcon, e)
		}
	}
	for _, w := range result.Warnings {
		printWarning("%s", w)
	}

	fmt.Println()
	printInfo("tags", fmt.Sprintf("%d", result.TagCount))
	printInfo("max depth", fmt.Sprintf("%d", result.MaxDepth))
	printInfo("complexity", fmt.Sprintf("%d", result.ComplexityScore))
	printInfo("suggested agents", fmt.Sprintf("%d", result.SuggestedAgents))
	printInfo("estimated reduction", fmt.Sprintf("%.1f%%", result.EstimatedReductionPct))

	return nil
}
