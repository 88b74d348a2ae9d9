package schema

import (
	"github.com/vowelab/vowelspace/dataset"
	"github.com/vowelab/vowelspace/logging"
)

// Normalizer renames detected columns to their canonical names and reports
// detection provenance. The input table is never mutated; normalization
// always produces a copy.
type Normalizer struct {
	detector *Detector
	log      logging.Logger
}

// NewNormalizer creates a normalizer with its own detector.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		detector: NewDetector(),
		log:      logging.WithFields(logging.Fields{"component": "schema.normalizer"}),
	}
}

// Apply renames the columns named in the mapping to their canonical names,
// leaving unclaimed columns untouched, and builds the detection report from
// the original column data.
func (n *Normalizer) Apply(t *dataset.Table, detected Mapping) (*dataset.Table, *DetectionReport) {
	// Report first: statistics must reflect the source values under their
	// original names.
	report := buildReport(t, detected)

	inverse := make(map[string]string, len(detected))
	for field, col := range detected {
		inverse[col] = field
	}

	return t.Rename(inverse), report
}

// DetectAndApply runs detection and normalization in one step, the usual
// entry point for ingestion.
func (n *Normalizer) DetectAndApply(t *dataset.Table) (*dataset.Table, *DetectionReport, error) {
	detected, err := n.detector.Detect(t)
	if err != nil {
		return nil, nil, err
	}

	n.log.Info("columns auto-detected", logging.Fields{
		"fields":  len(detected),
		"columns": len(t.Columns()),
	})

	renamed, report := n.Apply(t, detected)
	return renamed, report, nil
}
