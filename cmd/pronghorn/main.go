// Pronghorn - an XML instruction optimizer for Claude Code
package main

import (
	"os"

	"github.com/pronghorn-cli/pronghorn/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
