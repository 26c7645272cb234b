// Command docnamer renames receipt and invoice PDFs after their content and
// reports byte-identical duplicates.
//
// It loads configuration, validates the target directory and either runs
// diagnostics (check), the duplicate scan or the rename pipeline.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		// Errors after logger setup have already been logged.
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "docnamer: %v\n", err)
		}
		return 1
	}
	return 0
}
