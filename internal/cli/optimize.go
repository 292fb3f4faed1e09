package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pronghorn-cli/pronghorn/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewOptimizeCmd creates the optimize command.
func NewOptimizeCmd() *cobra.Command {
	var contextHint string
	var noCache bool
	var force bool
	var write string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "optimize [file]",
		Short: "Optimize an XML instruction snippet",
		Long: `Runs the full pipeline on a snippet: detection, validation, tag and
phrase substitution, and template caching.

Reads from the given file, or from stdin when no file is passed. The
optimized snippet goes to stdout; metrics go to stderr unless --quiet.`,
		Example: `  pronghorn optimize prompt.xml
  cat prompt.xml | pronghorn optimize
  pronghorn optimize prompt.xml --context workflow
  pronghorn optimize prompt.xml --write optimized.xml --quiet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			return runOptimize(input, contextHint, pipeline.Options{
				NoCache: noCache,
				Force:   force,
			}, write, quiet)
		},
	}

	cmd.Flags().StringVar(&contextHint, "context", "", "Context hint (code_generation, analysis, workflow)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip cache read and write")
	cmd.Flags().BoolVar(&force, "force", false, "Re-optimize even on a cache hit")
	cmd.Flags().StringVarP(&write, "write", "w", "", "Write optimized output to a file instead of stdout")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the metrics summary")

	return cmd
}

func runOptimize(input, contextHint string, opts pipeline.Options, write string, quiet bool) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	result := p.Process(input, contextHint, opts)

	if write != "" {
		if err := os.WriteFile(write, []byte(result.Optimized), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Println(result.Optimized)
	}

	if quiet {
		return nil
	}

	printResultSummary(result, write)
	return nil
}

func printResultSummary(result *pipeline.Result, write string) {
	out := os.Stderr

	if !result.IsXML {
		fmt.Fprintf(out, "%s input is not XML-shaped; passed through unchanged\n", warningIcon)
		return
	}

	if result.CacheHit {
		kind := "exact"
		if !result.ExactHit {
			kind = "pattern"
		}
		fmt.Fprintf(out, "%s %s\n", successIcon, success(fmt.Sprintf("cache hit (%s)", kind)))
	}

	if result.Validation != nil && !result.Validation.IsValid {
		for _, e := range result.Validation.Errors {
			fmt.Fprintf(out, "%s %s\n", warningIcon, warning(e))
		}
	}

	if m := result.Metrics; m != nil {
		fmt.Fprintf(out, "  %s %d → %d tokens (%.1f%% reduction)\n",
			dim("tokens:"), m.OriginalTokens, m.OptimizedTokens, m.ReductionPct)
		if len(m.Techniques) > 0 {
			fmt.Fprintf(out, "  %s %s\n", dim("applied:"), strings.Join(m.Techniques, ", "))
		}
		fmt.Fprintf(out, "  %s semantic %.2f, compatibility %.2f\n",
			dim("scores:"), m.SemanticScore, m.CompatibilityScore)
	}
	if result.Context != "" {
		fmt.Fprintf(out, "  %s %s\n", dim("context:"), result.Context)
	}
	fmt.Fprintf(out, "  %s %s (%s)\n", dim("took:"), result.Duration, result.PerformanceCategory)

	if write != "" {
		fmt.Fprintf(out, "%s wrote optimized output to %s\n", successIcon, write)
	}
}
