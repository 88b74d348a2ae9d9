// Package main provides the vowelspace CLI tool.
//
// Usage:
//
//	vowelspace [flags] <command> [args]
//
// Commands:
//
//	ingest  - Read a tabular formant dataset, detect its schema and emit canonical CSV
//	extract - Extract formant measurements from annotated WAV recordings
//	stats   - Compute descriptive statistics and vowel-space metrics
package main

import (
	"fmt"
	"os"

	"github.com/vowelab/vowelspace/cmd/vowelspace/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
