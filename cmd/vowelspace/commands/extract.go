package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vowelab/vowelspace/extract"
)

var (
	extractOutput   string
	extractMetadata string
)

var extractCmd = &cobra.Command{
	Use:   "extract <dir | wav-files...>",
	Short: "Extract formant measurements from annotated WAV recordings",
	Long: `Measure F1 and F2 from WAV recordings via LPC formant tracking.

Each recording is paired with the Praat TextGrid annotation sharing its
basename; labeled vowel intervals are measured across the middle of the
interval. Recordings without an annotation are sampled every 50 ms and
their rows dropped as unlabeled. Speaker and native language are parsed
from filenames of the form speaker_language_rest.wav.

With a single directory argument, all .wav and .TextGrid files in it are
used.

Examples:
  vowelspace extract recordings/ -o formants.csv
  vowelspace extract s1_en_a.wav s1_en_b.wav --metadata run.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		audioPaths, annotationPaths, err := collectInputs(args)
		if err != nil {
			return err
		}
		if len(audioPaths) == 0 {
			return fmt.Errorf("no .wav files found in arguments")
		}

		extractCfg := extract.DefaultConfig()
		if cfg.TargetSampleRate > 0 {
			extractCfg.TargetSampleRate = cfg.TargetSampleRate
		}
		if cfg.MaxFormantHz > 0 {
			extractCfg.Formant.MaxFormantHz = cfg.MaxFormantHz
		}

		ex := extract.NewExtractor(extract.NewLPCEngine(), extractCfg)
		ds, meta, err := ex.Extract(audioPaths, annotationPaths)
		if err != nil {
			return err
		}

		if !cfg.DisableOutlierFilter {
			ds = extract.NewOutlierFilter(cfg.OutlierThreshold).Apply(ds)
		}

		for _, entry := range meta.ProcessingLog {
			fmt.Fprintln(os.Stderr, entry)
		}

		if extractMetadata != "" {
			data, err := json.MarshalIndent(meta, "", "  ")
			if err != nil {
				return fmt.Errorf("encode metadata: %w", err)
			}
			if err := os.WriteFile(extractMetadata, data, 0644); err != nil {
				return fmt.Errorf("write metadata: %w", err)
			}
		}

		out := os.Stdout
		if extractOutput != "" {
			f, err := os.Create(extractOutput)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}
		return ds.WriteCSV(out)
	},
}

// collectInputs splits the arguments into audio and annotation paths. A
// single directory argument is expanded to its .wav and .TextGrid contents
// in sorted order.
func collectInputs(args []string) (audio, annotations []string, err error) {
	if len(args) == 1 {
		dir := args[0]
		info, statErr := os.Stat(dir)
		if statErr == nil && info.IsDir() {
			entries, readErr := os.ReadDir(dir)
			if readErr != nil {
				return nil, nil, fmt.Errorf("read directory: %w", readErr)
			}
			args = nil
			for _, e := range entries {
				if !e.IsDir() {
					args = append(args, filepath.Join(dir, e.Name()))
				}
			}
		}
	}

	for _, a := range args {
		switch strings.ToLower(filepath.Ext(a)) {
		case ".wav":
			audio = append(audio, a)
		case ".textgrid":
			annotations = append(annotations, a)
		}
	}
	sort.Strings(audio)
	sort.Strings(annotations)
	return audio, annotations, nil
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output CSV path (default stdout)")
	extractCmd.Flags().StringVar(&extractMetadata, "metadata", "", "write extraction metadata JSON to this path")
}
