package extract

import (
	"github.com/google/uuid"
)

// FileReport records per-file provenance for one extraction run.
type FileReport struct {
	WAVFile            string  `json:"wav_file"`
	TextGridFile       string  `json:"textgrid_file,omitempty"`
	Basename           string  `json:"basename"`
	Duration           float64 `json:"duration"`
	OriginalSampleRate int     `json:"original_sampling_rate"`
	FinalSampleRate    int     `json:"final_sampling_rate"`
	WasResampled       bool    `json:"was_resampled"`
	VowelsExtracted    int     `json:"vowels_extracted"`
	Speaker            string  `json:"speaker,omitempty"`
	NativeLanguage     string  `json:"native_language,omitempty"`
}

// Metadata describes one extraction run: per-file reports, aggregate vowel
// counts and a human-readable processing log with exactly one entry per
// input file, in input order.
type Metadata struct {
	RunID                string         `json:"run_id"`
	Files                []FileReport   `json:"files"`
	TotalVowelsExtracted int            `json:"total_vowels_extracted"`
	VowelCounts          map[string]int `json:"vowel_counts"`
	ProcessingLog        []string       `json:"processing_log"`
}

// newMetadata creates an empty run record with a fresh run ID.
func newMetadata() *Metadata {
	return &Metadata{
		RunID:       uuid.New().String(),
		VowelCounts: make(map[string]int),
	}
}

// countVowels tallies extracted rows into the aggregate vowel counts.
func (m *Metadata) countVowels(labels []string) {
	for _, label := range labels {
		m.VowelCounts[label]++
	}
	m.TotalVowelsExtracted += len(labels)
}
