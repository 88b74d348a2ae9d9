package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vowelab/vowelspace/analysis"
	"github.com/vowelab/vowelspace/ingest"
)

var (
	statsGroupBy    string
	statsVowelSpace bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Compute descriptive statistics over a formant dataset",
	Long: `Ingest a tabular dataset and print F1/F2 distribution statistics
as JSON: count, mean, standard deviation, min, quartiles, median, max.

Examples:
  vowelspace stats formants.csv
  vowelspace stats formants.csv --group-by vowel
  vowelspace stats formants.csv --vowel-space`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := ingest.NewIngestor().IngestFile(args[0])
		if err != nil {
			return err
		}

		out := struct {
			Statistics *analysis.DescriptiveStats  `json:"statistics"`
			VowelSpace *analysis.VowelSpaceMetrics `json:"vowel_space,omitempty"`
		}{}

		out.Statistics, err = analysis.Describe(result.Dataset, statsGroupBy)
		if err != nil {
			return err
		}

		if statsVowelSpace {
			out.VowelSpace, err = analysis.VowelSpace(result.Dataset)
			if err != nil {
				return err
			}
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encode statistics: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsGroupBy, "group-by", "", "grouping field: vowel, speaker or native_language")
	statsCmd.Flags().BoolVar(&statsVowelSpace, "vowel-space", false, "also compute vowel-space metrics")
}
