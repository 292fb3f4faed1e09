package cli

import (
	"fmt"
	"strings"

	"github.com/pronghorn-cli/pronghorn/internal/pattern"
	"github.com/spf13/cobra"
)

// NewPatternsCmd creates the patterns command.
func NewPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns [file]",
		Short: "List known patterns or recognize a snippet",
		Long: `Without arguments, lists the structural pattern registry.

With a file (or stdin content), recognizes the snippet against the registry
and prints the best match with its confidence.`,
		Example: `  pronghorn patterns
  pronghorn patterns prompt.xml
  cat prompt.xml | pronghorn patterns -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runPatternsList()
			}
			if args[0] == "-" {
				args = nil
			}
			input, err := readInput(args)
			if err != nil {
				return err
			}
			return runPatternsRecognize(input)
		},
	}
}

func runPatternsList() error {
	recognizer := pattern.New()

	fmt.Println(dim("KNOWN PATTERNS"))
	for _, p := range recognizer.Patterns() {
		fmt.Printf("  %-20s %s\n", info(titleCase(p.Name)), p.Description)
		fmt.Printf("                       %s %s %s weight %.1f\n",
			dim("indicators:"), strings.Join(p.Indicators, ", "), dim("·"), p.Weight)
	}
	return nil
}

func runPatternsRecognize(input string) error {
	recognizer := pattern.New()
	match := recognizer.Recognize(input)

	if match.Name == "" {
		fmt.Println("No pattern matched.")
		return nil
	}

	printSuccess("%s (confidence %.2f)", titleCase(match.Name), match.Confidence)
	if len(match.Matched) > 0 {
		printInfo("matched indicators", strings.Join(match.Matched, ", "))
	}
	return nil
}
