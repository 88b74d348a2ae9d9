package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vowelab/vowelspace/dataset"
)

var exampleOutput string

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Write a sample canonical dataset",
	Long: `Generate a deterministic sample dataset of five cardinal vowels with
ten observations each and write it as canonical CSV, for trying out the
stats command without your own data.

Examples:
  vowelspace example -o sample.csv
  vowelspace stats sample.csv --group-by vowel`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := os.Stdout
		if exampleOutput != "" {
			f, err := os.Create(exampleOutput)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}
		return dataset.Example().WriteCSV(out)
	},
}

func init() {
	exampleCmd.Flags().StringVarP(&exampleOutput, "output", "o", "", "output CSV path (default stdout)")
}
