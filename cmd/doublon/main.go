// Command doublon finds exact duplicate files within or across directory
// trees and reports, deletes or repatriates them.
package main

import (
	"fmt"
	"os"

	"github.com/Yasin57/doublon/internal/cli"
)

// version is set at build time via -ldflags.
//
//nolint:gochecknoglobals // Build-time metadata
var version = "dev"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
