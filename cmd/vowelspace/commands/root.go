package commands

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/vowelab/vowelspace/logging"
)

var (
	configFile string
	verbose    bool
)

// Config is the optional YAML configuration file shared by all commands.
type Config struct {
	// TargetSampleRate overrides the extraction resampling rate in Hz.
	TargetSampleRate int `yaml:"target_sample_rate"`

	// OutlierThreshold is the standard-deviation cutoff applied to
	// audio-extracted measurements. Zero keeps the default.
	OutlierThreshold float64 `yaml:"outlier_threshold"`

	// MaxFormantHz is the formant ceiling for LPC analysis.
	MaxFormantHz float64 `yaml:"max_formant_hz"`

	// DisableOutlierFilter skips outlier removal on the extract path.
	DisableOutlierFilter bool `yaml:"disable_outlier_filter"`
}

var rootCmd = &cobra.Command{
	Use:   "vowelspace",
	Short: "Formant dataset ingestion and vowel-space analysis",
	Long: `vowelspace turns phonetic measurement data into a canonical dataset.

Two input paths are supported:
  - tabular files (CSV, TXT, XLSX, XLS) with automatic schema detection
  - WAV recordings with Praat TextGrid annotations, measured via LPC

Both produce the same canonical rows (vowel, F1, F2, speaker, ...), ready
for descriptive statistics and vowel-space metrics.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetLevel(logging.DebugLevel)
		}
	},
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the YAML config file when one was given, otherwise
// returns zero-value defaults.
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if configFile == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configFile, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configFile, err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exampleCmd)
}
