// Package extract turns audio recordings with time-aligned phonetic
// annotations into canonical formant measurements. Each labeled vowel
// interval yields one row; recordings without annotations fall back to
// regular-interval sampling.
package extract

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/vowelab/vowelspace/dataset"
	"github.com/vowelab/vowelspace/formant"
	"github.com/vowelab/vowelspace/logging"
	"github.com/vowelab/vowelspace/phone"
	"github.com/vowelab/vowelspace/textgrid"
)

// ErrEngineUnavailable reports that the acoustic-analysis capability could
// not be used at all. It is a configuration-level condition: the extraction
// call fails immediately and is not retried.
var ErrEngineUnavailable = errors.New("acoustic analysis engine unavailable")

// UnlabeledVowel marks rows sampled at regular intervals from recordings
// without annotations. The label never passes the vowel filter, so these
// rows are dropped from annotated-path results during the final pass.
const UnlabeledVowel = "unlabeled"

// Config holds extraction parameters.
type Config struct {
	// TargetSampleRate is the rate every recording is resampled to before
	// analysis.
	TargetSampleRate int

	// ShortIntervalSec is the interval duration at or below which a single
	// midpoint sample replaces the windowed average.
	ShortIntervalSec float64

	// WindowStart and WindowEnd bound the sampling window as fractions of
	// the interval duration.
	WindowStart float64
	WindowEnd   float64

	// WindowPoints is how many equally spaced samples are averaged inside
	// the window.
	WindowPoints int

	// RegularStepSec is the sampling step for recordings without
	// annotations, and EdgePaddingSec how much of each end is skipped.
	RegularStepSec float64
	EdgePaddingSec float64

	// Formant configures the underlying formant tracker.
	Formant formant.Config
}

// DefaultConfig returns the standard extraction parameters: 16 kHz target
// rate, the middle 25% of each interval sampled at 5 points, 20 ms short
// interval cutoff, and 50 ms regular-interval sampling 100 ms away from the
// edges.
func DefaultConfig() Config {
	return Config{
		TargetSampleRate: 16000,
		ShortIntervalSec: 0.02,
		WindowStart:      0.375,
		WindowEnd:        0.625,
		WindowPoints:     5,
		RegularStepSec:   0.05,
		EdgePaddingSec:   0.1,
		Formant:          formant.DefaultConfig(),
	}
}

// Extractor converts audio+annotation batches into canonical datasets.
type Extractor struct {
	engine Engine
	config Config
	filter *phone.VowelFilter
	log    logging.Logger
}

// NewExtractor creates an extractor over the given engine. A nil engine is
// accepted here but makes every Extract call fail with
// ErrEngineUnavailable.
func NewExtractor(engine Engine, config Config) *Extractor {
	return &Extractor{
		engine: engine,
		config: config,
		filter: phone.NewVowelFilter(),
		log:    logging.WithFields(logging.Fields{"component": "extract"}),
	}
}

// Extract processes the audio files in order, pairing each with the
// annotation file sharing its basename. Per-file failures are logged into
// the metadata and skipped; the call succeeds with whatever rows the
// remaining files produced (possibly none). Only an unavailable engine is a
// fatal error.
func (ex *Extractor) Extract(audioPaths, annotationPaths []string) (*dataset.Dataset, *Metadata, error) {
	if ex.engine == nil {
		meta := newMetadata()
		meta.ProcessingLog = append(meta.ProcessingLog, ErrEngineUnavailable.Error())
		return dataset.New(), meta, ErrEngineUnavailable
	}

	meta := newMetadata()
	ds := dataset.New()

	for _, wavPath := range audioPaths {
		rows, report, err := ex.processFile(wavPath, annotationPaths)
		if err != nil {
			ex.log.Error(err, "file skipped", logging.Fields{"file": filepath.Base(wavPath)})
			meta.ProcessingLog = append(meta.ProcessingLog,
				fmt.Sprintf("✗ %s: %v", filepath.Base(wavPath), err))
			continue
		}

		labels := make([]string, len(rows))
		for i, r := range rows {
			labels[i] = r.Vowel
		}
		meta.countVowels(labels)

		report.VowelsExtracted = len(rows)
		meta.Files = append(meta.Files, report)
		meta.ProcessingLog = append(meta.ProcessingLog,
			fmt.Sprintf("✓ %s: %d vowels", report.Basename, len(rows)))

		ds.Append(rows...)
	}

	return ex.finalize(ds), meta, nil
}

// processFile runs the full per-file pipeline: filename metadata, loading,
// resampling, annotation lookup, formant tracking and sampling.
func (ex *Extractor) processFile(wavPath string, annotationPaths []string) ([]dataset.Row, FileReport, error) {
	basename := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	fileMeta := parseFilenameMetadata(basename)

	sound, err := ex.engine.LoadSound(wavPath)
	if err != nil {
		return nil, FileReport{}, fmt.Errorf("load audio: %w", err)
	}

	report := FileReport{
		WAVFile:            filepath.Base(wavPath),
		Basename:           basename,
		OriginalSampleRate: sound.SampleRate,
		Speaker:            fileMeta.Speaker,
		NativeLanguage:     fileMeta.NativeLanguage,
	}

	if sound.SampleRate != ex.config.TargetSampleRate {
		ex.log.Info("resampling", logging.Fields{
			"file": basename,
			"from": sound.SampleRate,
			"to":   ex.config.TargetSampleRate,
		})
		sound, err = ex.engine.Resample(sound, ex.config.TargetSampleRate)
		if err != nil {
			return nil, FileReport{}, fmt.Errorf("resample: %w", err)
		}
		report.WasResampled = true
	}
	report.FinalSampleRate = sound.SampleRate
	report.Duration = sound.Duration()

	var grid *textgrid.TextGrid
	if tgPath := findAnnotation(basename, annotationPaths); tgPath != "" {
		grid, err = ex.engine.LoadAnnotation(tgPath)
		if err != nil {
			// A broken annotation file downgrades to unlabeled extraction
			// rather than failing the audio file.
			ex.log.Warn("annotation unreadable, falling back to regular sampling", logging.Fields{
				"file":  basename,
				"error": err.Error(),
			})
			grid = nil
		} else {
			report.TextGridFile = filepath.Base(tgPath)
		}
	}

	track, err := ex.engine.BuildTrack(sound, ex.config.Formant)
	if err != nil {
		return nil, FileReport{}, fmt.Errorf("formant tracking: %w", err)
	}

	var rows []dataset.Row
	if grid != nil {
		rows = ex.extractLabeled(track, grid, fileMeta, basename)
	} else {
		rows = ex.extractRegular(track, sound.Duration(), fileMeta, basename)
	}
	return rows, report, nil
}

// findAnnotation returns the annotation path sharing the audio basename, or
// empty when none matches.
func findAnnotation(basename string, annotationPaths []string) string {
	for _, p := range annotationPaths {
		tgBase := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if tgBase == basename {
			return p
		}
	}
	return ""
}

// selectTier picks the annotation tier most likely to hold phonetic segment
// labels: the first tier whose name contains vowel, phone or segment, else
// the first tier.
func selectTier(grid *textgrid.TextGrid) *textgrid.Tier {
	if grid.TierCount() == 0 {
		return nil
	}
	for i := range grid.Tiers {
		name := strings.ToLower(grid.Tiers[i].Name)
		if strings.Contains(name, "vowel") ||
			strings.Contains(name, "phone") ||
			strings.Contains(name, "segment") {
			return &grid.Tiers[i]
		}
	}
	return &grid.Tiers[0]
}

// extractLabeled emits one row per labeled vowel interval. Intervals longer
// than the short-interval cutoff are measured as the average of several
// samples across the middle of the interval; shorter ones at their
// midpoint.
func (ex *Extractor) extractLabeled(track FormantTrack, grid *textgrid.TextGrid, fileMeta FileMetadata, basename string) []dataset.Row {
	tier := selectTier(grid)
	if tier == nil {
		return nil
	}

	var rows []dataset.Row
	for _, iv := range tier.Intervals {
		label := strings.TrimSpace(iv.Text)
		if label == "" {
			continue
		}

		d := iv.Duration()
		if d > ex.config.ShortIntervalSec {
			row, ok := ex.sampleWindow(track, iv, label, fileMeta, basename)
			if ok {
				rows = append(rows, row)
			}
			continue
		}

		row, ok := ex.sampleMidpoint(track, iv, label, fileMeta, basename)
		if ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// sampleWindow averages valid formant samples across the middle of the
// interval.
func (ex *Extractor) sampleWindow(track FormantTrack, iv textgrid.Interval, label string, fileMeta FileMetadata, basename string) (dataset.Row, bool) {
	d := iv.Duration()
	windowStart := iv.XMin + d*ex.config.WindowStart
	windowEnd := iv.XMin + d*ex.config.WindowEnd

	var f1Values, f2Values []float64
	for i := range ex.config.WindowPoints {
		t := windowStart
		if ex.config.WindowPoints > 1 {
			t += float64(i) * (windowEnd - windowStart) / float64(ex.config.WindowPoints-1)
		}

		f1 := track.ValueAt(1, t)
		f2 := track.ValueAt(2, t)
		if validFormantPair(f1, f2) {
			f1Values = append(f1Values, f1)
			f2Values = append(f2Values, f2)
		}
	}

	if len(f1Values) == 0 || !ex.filter.IsVowel(label) {
		return dataset.Row{}, false
	}

	return dataset.Row{
		Vowel:          label,
		F1:             round1(mean(f1Values)),
		F2:             round1(mean(f2Values)),
		Speaker:        fileMeta.Speaker,
		NativeLanguage: fileMeta.NativeLanguage,
		Time:           dataset.Float64Ptr((windowStart + windowEnd) / 2),
		Duration:       dataset.Float64Ptr(d * 1000),
		File:           basename,
	}, true
}

// sampleMidpoint takes a single measurement at the interval midpoint, for
// intervals too short for a stable window.
func (ex *Extractor) sampleMidpoint(track FormantTrack, iv textgrid.Interval, label string, fileMeta FileMetadata, basename string) (dataset.Row, bool) {
	t := iv.Midpoint()
	f1 := track.ValueAt(1, t)
	f2 := track.ValueAt(2, t)

	if !validFormantPair(f1, f2) || !ex.filter.IsVowel(label) {
		return dataset.Row{}, false
	}

	return dataset.Row{
		Vowel:          label,
		F1:             round1(f1),
		F2:             round1(f2),
		Speaker:        fileMeta.Speaker,
		NativeLanguage: fileMeta.NativeLanguage,
		Time:           dataset.Float64Ptr(t),
		Duration:       dataset.Float64Ptr(iv.Duration() * 1000),
		File:           basename,
	}, true
}

// extractRegular samples the whole recording at a fixed step, skipping the
// edges, for audio without an annotation file. Rows carry the unlabeled
// marker.
func (ex *Extractor) extractRegular(track FormantTrack, duration float64, fileMeta FileMetadata, basename string) []dataset.Row {
	var rows []dataset.Row
	for i := 0; ; i++ {
		t := ex.config.EdgePaddingSec + float64(i)*ex.config.RegularStepSec
		if t >= duration-ex.config.EdgePaddingSec {
			break
		}

		f1 := track.ValueAt(1, t)
		f2 := track.ValueAt(2, t)
		if !validFormantPair(f1, f2) {
			continue
		}

		rows = append(rows, dataset.Row{
			Vowel:          UnlabeledVowel,
			F1:             round1(f1),
			F2:             round1(f2),
			Speaker:        fileMeta.Speaker,
			NativeLanguage: fileMeta.NativeLanguage,
			Time:           dataset.Float64Ptr(t),
			File:           basename,
		})
	}
	return rows
}

// finalize re-filters the combined rows by the vowel-label filter (dropping
// unlabeled rows) and backfills missing speaker and language identifiers.
func (ex *Extractor) finalize(ds *dataset.Dataset) *dataset.Dataset {
	out := dataset.New()
	for _, row := range ds.Rows {
		if !ex.filter.IsVowel(row.Vowel) {
			continue
		}
		if strings.TrimSpace(row.Speaker) == "" {
			row.Speaker = dataset.Unknown
		}
		if strings.TrimSpace(row.NativeLanguage) == "" {
			row.NativeLanguage = dataset.Unknown
		}
		out.Append(row)
	}
	return out
}

// validFormantPair reports whether both formants are finite and inside the
// plausible range.
func validFormantPair(f1, f2 float64) bool {
	if math.IsNaN(f1) || math.IsInf(f1, 0) || math.IsNaN(f2) || math.IsInf(f2, 0) {
		return false
	}
	return f1 >= dataset.MinFormantHz && f1 <= dataset.MaxFormantHz &&
		f2 >= dataset.MinFormantHz && f2 <= dataset.MaxFormantHz
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
