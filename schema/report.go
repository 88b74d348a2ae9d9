package schema

import (
	"github.com/vowelab/vowelspace/dataset"
)

// DetectionReport records which original columns were mapped to which
// canonical fields, with per-field summary statistics computed from the
// source values before renaming. It is created once per ingested dataset and
// never mutated afterward.
type DetectionReport struct {
	// Detected maps canonical field name to the original column name.
	Detected Mapping `json:"detected"`

	// Details holds per-field provenance and summary statistics.
	Details map[string]FieldDetail `json:"details"`
}

// FieldDetail describes one detected column.
type FieldDetail struct {
	OriginalName string `json:"original_name"`
	DataType     string `json:"data_type"` // "numeric" or "string"
	NonNullCount int    `json:"non_null_count"`
	NullCount    int    `json:"null_count"`

	// Numeric columns only.
	Numeric *dataset.NumericSummary `json:"numeric,omitempty"`

	// Categorical columns only.
	UniqueCount  int      `json:"unique_count,omitempty"`
	SampleValues []string `json:"sample_values,omitempty"`
}

// maxSampleValues caps how many distinct values a report quotes per
// categorical column.
const maxSampleValues = 5

// buildReport computes the detection report from the original (pre-rename)
// table so statistics reflect the source values.
func buildReport(t *dataset.Table, detected Mapping) *DetectionReport {
	report := &DetectionReport{
		Detected: make(Mapping, len(detected)),
		Details:  make(map[string]FieldDetail, len(detected)),
	}

	for field, col := range detected {
		report.Detected[field] = col

		nonNull, null := t.NullCounts(col)
		detail := FieldDetail{
			OriginalName: col,
			NonNullCount: nonNull,
			NullCount:    null,
		}

		if values, numeric := t.Floats(col); numeric {
			detail.DataType = "numeric"
			summary := dataset.Summarize(values)
			detail.Numeric = &summary
		} else {
			detail.DataType = "string"
			uniques := t.UniqueStrings(col)
			detail.UniqueCount = len(uniques)
			if len(uniques) > maxSampleValues {
				uniques = uniques[:maxSampleValues]
			}
			detail.SampleValues = uniques
		}

		report.Details[field] = detail
	}

	return report
}
