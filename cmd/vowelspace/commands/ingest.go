package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vowelab/vowelspace/ingest"
)

var (
	ingestOutput string
	ingestReport bool
	ingestRaw    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Read a tabular dataset and emit canonical CSV",
	Long: `Read a delimited or spreadsheet file, detect which columns hold the
canonical phonetic fields, clean the data and write it as canonical CSV.

Supported formats: .csv, .txt (comma or tab delimited), .xlsx, .xls.

Examples:
  vowelspace ingest measurements.csv -o canonical.csv
  vowelspace ingest survey.xlsx --report
  vowelspace ingest prenamed.csv --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ing := ingest.NewIngestor()

		var (
			result *ingest.Result
			err    error
		)
		if ingestRaw {
			result, err = ing.IngestFileRaw(args[0])
		} else {
			result, err = ing.IngestFile(args[0])
		}
		if err != nil {
			return err
		}

		if ingestReport && result.Report != nil {
			data, err := json.MarshalIndent(result.Report, "", "  ")
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			fmt.Fprintln(os.Stderr, string(data))
		}

		out := os.Stdout
		if ingestOutput != "" {
			f, err := os.Create(ingestOutput)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}
		return result.Dataset.WriteCSV(out)
	},
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOutput, "output", "o", "", "output CSV path (default stdout)")
	ingestCmd.Flags().BoolVar(&ingestReport, "report", false, "print the detection report as JSON on stderr")
	ingestCmd.Flags().BoolVar(&ingestRaw, "raw", false, "skip schema detection, require pre-named f1/f2 columns")
}
