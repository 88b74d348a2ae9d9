package schema

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vowelab/vowelspace/dataset"
)

// tableOf builds a table from a header and rows, test shorthand.
func tableOf(t *testing.T, header []string, rows ...[]string) *dataset.Table {
	t.Helper()
	tbl := dataset.NewTable(header)
	for _, row := range rows {
		tbl.AppendRow(row)
	}
	return tbl
}

func TestDetectCanonicalNamesIdentity(t *testing.T) {
	header := []string{
		"F1", "F2", "F3", "vowel", "speaker", "native_language",
		"time", "duration", "gender", "age",
	}
	tbl := tableOf(t, header,
		[]string{"500", "1500", "2500", "a", "s1", "en", "0.1", "120", "f", "30"},
		[]string{"320", "2200", "2800", "i", "s2", "de", "0.2", "90", "m", "41"},
	)

	detected, err := NewDetector().Detect(tbl)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for _, field := range header {
		canonical := field
		if got, ok := detected[canonical]; !ok || got != field {
			t.Errorf("field %s detected as %q, want identity", canonical, got)
		}
	}
}

func TestDetectIdempotence(t *testing.T) {
	tbl := tableOf(t, []string{"f1_hz", "f2 (Hz)", "phone", "participant"},
		[]string{"500", "1500", "a", "s1"},
		[]string{"320", "2200", "i", "s2"},
	)

	norm := NewNormalizer()
	renamed, _, err := norm.DetectAndApply(tbl)
	if err != nil {
		t.Fatalf("first detection: %v", err)
	}

	again, err := NewDetector().Detect(renamed)
	if err != nil {
		t.Fatalf("second detection: %v", err)
	}
	for field, col := range again {
		if field != col {
			t.Errorf("re-detection of canonical column %q mapped to %q, want identity", col, field)
		}
	}
}

func TestDetectPatternPrecedence(t *testing.T) {
	// Both F1 and mystery hold F1-range values; the literally named column
	// must win via the pattern phase.
	tbl := tableOf(t, []string{"mystery", "F1", "F2"},
		[]string{"480", "510", "1480"},
		[]string{"520", "495", "1520"},
		[]string{"505", "500", "1500"},
	)

	detected, err := NewDetector().Detect(tbl)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if detected[dataset.FieldF1] != "F1" {
		t.Errorf("F1 detected as %q, want the literally named column", detected[dataset.FieldF1])
	}
}

func TestDetectVariedNaming(t *testing.T) {
	header := []string{"f1_frequency", "f2_frequency", "phone", "participant"}
	vowels := []string{"i", "e", "a", "o", "u", "ae"}
	tbl := dataset.NewTable(header)
	for i := 0; i < 12; i++ {
		tbl.AppendRow([]string{
			fmt.Sprintf("%d", 480+i*5),
			fmt.Sprintf("%d", 1750+i*10),
			vowels[i%len(vowels)],
			fmt.Sprintf("p%d", i%3),
		})
	}

	detected, err := NewDetector().Detect(tbl)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	want := Mapping{
		dataset.FieldF1:      "f1_frequency",
		dataset.FieldF2:      "f2_frequency",
		dataset.FieldVowel:   "phone",
		dataset.FieldSpeaker: "participant",
	}
	for field, col := range want {
		if detected[field] != col {
			t.Errorf("%s detected as %q, want %q", field, detected[field], col)
		}
	}
}

func TestDetectHeuristicFallback(t *testing.T) {
	// No recognizable names at all; detection must fall back to content.
	tbl := tableOf(t, []string{"col_a", "col_b", "col_c"},
		[]string{"510", "1480", "a"},
		[]string{"495", "1520", "i"},
		[]string{"500", "1500", "u"},
	)

	detected, err := NewDetector().Detect(tbl)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if detected[dataset.FieldF1] != "col_a" {
		t.Errorf("F1 detected as %q, want col_a", detected[dataset.FieldF1])
	}
	if detected[dataset.FieldF2] != "col_b" {
		t.Errorf("F2 detected as %q, want col_b", detected[dataset.FieldF2])
	}
	if detected[dataset.FieldVowel] != "col_c" {
		t.Errorf("vowel detected as %q, want col_c", detected[dataset.FieldVowel])
	}
}

func TestDetectMissingFormantsFails(t *testing.T) {
	tbl := tableOf(t, []string{"x", "y", "z"},
		[]string{"1", "2", "foo"},
		[]string{"2", "4", "bar"},
		[]string{"3", "6", "baz"},
	)

	_, err := NewDetector().Detect(tbl)
	if err == nil {
		t.Fatal("detection should fail without formant columns")
	}

	var detErr *DetectionError
	if !errors.As(err, &detErr) {
		t.Fatalf("error type %T, want *DetectionError", err)
	}
	if len(detErr.Missing) != 2 {
		t.Fatalf("missing = %v, want both F1 and F2", detErr.Missing)
	}
	msg := err.Error()
	if !strings.Contains(msg, "F1") || !strings.Contains(msg, "F2") {
		t.Errorf("error message should name F1 and F2: %s", msg)
	}
	if !strings.Contains(msg, "200-1000") || !strings.Contains(msg, "800-3000") {
		t.Errorf("error message should state the acceptable Hz ranges: %s", msg)
	}
}

func TestDetectTimeHeuristic(t *testing.T) {
	tbl := tableOf(t, []string{"F1", "F2", "col_t"},
		[]string{"500", "1500", "0.10"},
		[]string{"505", "1520", "0.15"},
		[]string{"498", "1490", "0.20"},
		[]string{"502", "1505", "0.25"},
	)

	detected, err := NewDetector().Detect(tbl)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if detected[dataset.FieldTime] != "col_t" {
		t.Errorf("time detected as %q, want col_t", detected[dataset.FieldTime])
	}
}

func TestNormalizerApplyCopiesAndReports(t *testing.T) {
	tbl := tableOf(t, []string{"f1_hz", "f2_hz", "phone"},
		[]string{"500", "1500", "a"},
		[]string{"NA", "1520", "i"},
	)

	norm := NewNormalizer()
	renamed, report, err := norm.DetectAndApply(tbl)
	if err != nil {
		t.Fatalf("DetectAndApply: %v", err)
	}

	if !tbl.HasColumn("f1_hz") {
		t.Error("normalization mutated the input table")
	}
	if !renamed.HasColumn(dataset.FieldF1) || !renamed.HasColumn(dataset.FieldF2) {
		t.Fatalf("renamed table missing canonical columns: %v", renamed.Columns())
	}

	detail, ok := report.Details[dataset.FieldF1]
	if !ok {
		t.Fatal("report has no F1 detail")
	}
	if detail.OriginalName != "f1_hz" {
		t.Errorf("F1 original name = %q, want f1_hz", detail.OriginalName)
	}
	if detail.DataType != "numeric" {
		t.Errorf("F1 data type = %q, want numeric", detail.DataType)
	}
	if detail.NonNullCount != 1 || detail.NullCount != 1 {
		t.Errorf("F1 counts = %d/%d, want 1 non-null and 1 null", detail.NonNullCount, detail.NullCount)
	}

	vowelDetail := report.Details[dataset.FieldVowel]
	if vowelDetail.DataType != "string" || vowelDetail.UniqueCount != 2 {
		t.Errorf("vowel detail = %+v, want string with 2 uniques", vowelDetail)
	}
}
