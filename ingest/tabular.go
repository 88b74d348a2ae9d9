// Package ingest reads delimited or spreadsheet exports of formant
// measurements into canonical datasets, running schema detection and
// cleaning on the way.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/vowelab/vowelspace/dataset"
	"github.com/vowelab/vowelspace/logging"
	"github.com/vowelab/vowelspace/schema"
)

// Result is a successful ingestion: the canonical dataset plus the detection
// report (nil when auto-detection was skipped).
type Result struct {
	Dataset *dataset.Dataset
	Report  *schema.DetectionReport

	// Table is the normalized table the dataset was cleaned from, with
	// unclaimed columns preserved.
	Table *dataset.Table
}

// Ingestor reads tabular measurement files into canonical datasets.
type Ingestor struct {
	normalizer *schema.Normalizer
	log        logging.Logger
}

// NewIngestor creates a tabular ingestor.
func NewIngestor() *Ingestor {
	return &Ingestor{
		normalizer: schema.NewNormalizer(),
		log:        logging.WithFields(logging.Fields{"component": "ingest"}),
	}
}

// IngestFile reads a measurement file, dispatching on extension (csv, txt,
// xlsx, xls), with automatic schema detection.
func (ing *Ingestor) IngestFile(path string) (*Result, error) {
	return ing.ingestFile(path, true)
}

// IngestFileRaw reads a measurement file without auto-detection: column
// names are case/whitespace-normalized only, F1 and F2 must be present by
// name, and vowel defaults to "unknown" if missing.
func (ing *Ingestor) IngestFileRaw(path string) (*Result, error) {
	return ing.ingestFile(path, false)
}

func (ing *Ingestor) ingestFile(path string, autoDetect bool) (*Result, error) {
	var (
		table *dataset.Table
		err   error
	)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "csv", "txt":
		table, err = ing.readDelimited(path)
	case "xlsx", "xls":
		table, err = ing.readSpreadsheet(path)
	default:
		return nil, fmt.Errorf("unsupported file extension %q (want csv, txt, xlsx or xls)", ext)
	}
	if err != nil {
		return nil, err
	}

	ing.log.Info("file read", logging.Fields{
		"path":    filepath.Base(path),
		"rows":    table.NumRows(),
		"columns": len(table.Columns()),
	})

	if autoDetect {
		return ing.IngestTable(table)
	}
	return ing.IngestTableRaw(table)
}

// IngestTable runs schema detection, normalization and cleaning over an
// already-parsed table.
func (ing *Ingestor) IngestTable(t *dataset.Table) (*Result, error) {
	normalized, report, err := ing.normalizer.DetectAndApply(t)
	if err != nil {
		return nil, err
	}

	ds, err := ing.clean(normalized, report)
	if err != nil {
		return nil, err
	}
	return &Result{Dataset: ds, Report: report, Table: normalized}, nil
}

// IngestTableRaw skips detection: column names are lower-cased and trimmed,
// f1/f2 must exist by name and are renamed to canonical case, and vowel is
// synthesized as "unknown" when missing.
func (ing *Ingestor) IngestTableRaw(t *dataset.Table) (*Result, error) {
	lowered := make(map[string]string)
	for _, col := range t.Columns() {
		lowered[col] = strings.ToLower(strings.TrimSpace(col))
	}
	normalized := t.Rename(lowered)

	var missing []string
	for _, required := range []string{"f1", "f2"} {
		if !normalized.HasColumn(required) {
			missing = append(missing, strings.ToUpper(required))
		}
	}
	if len(missing) > 0 {
		return nil, &schema.DetectionError{Missing: missing}
	}

	normalized = normalized.Rename(map[string]string{
		"f1": dataset.FieldF1,
		"f2": dataset.FieldF2,
	})

	ds, err := ing.clean(normalized, nil)
	if err != nil {
		return nil, err
	}
	return &Result{Dataset: ds, Table: normalized}, nil
}

// readDelimited reads a CSV or TXT file. The delimiter is sniffed from the
// first line (tab wins over comma), and files that are not valid UTF-8 are
// re-read as Latin-1, which preserves every byte.
func (ing *Ingestor) readDelimited(path string) (*dataset.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if !utf8.Valid(data) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), decErr)
		}
		ing.log.Warn("file is not valid UTF-8, decoded as Latin-1", logging.Fields{
			"path": filepath.Base(path),
		})
		data = decoded
	}

	firstLine := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		firstLine = data[:idx]
	}
	comma := ','
	if bytes.IndexByte(firstLine, '\t') >= 0 {
		comma = '\t'
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: file is empty", filepath.Base(path))
	}

	return tableFromRecords(records), nil
}

// readSpreadsheet reads the first sheet of an XLSX/XLS workbook.
func (ing *Ingestor) readSpreadsheet(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", filepath.Base(path))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", filepath.Base(path), sheets[0])
	}

	return tableFromRecords(rows), nil
}

// tableFromRecords builds a table from header + data records, skipping rows
// where every cell is blank.
func tableFromRecords(records [][]string) *dataset.Table {
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	t := dataset.NewTable(header)
	for _, rec := range records[1:] {
		empty := true
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		t.AppendRow(rec)
	}
	return t
}

// clean converts a normalized table into a canonical dataset: rows with
// missing or unparseable F1/F2 are dropped, both formants are filtered to
// the valid range, and a constant "unknown" vowel column is synthesized when
// detection found none.
func (ing *Ingestor) clean(t *dataset.Table, report *schema.DetectionReport) (*dataset.Dataset, error) {
	if !t.HasColumn(dataset.FieldVowel) {
		if err := t.AddConstantColumn(dataset.FieldVowel, dataset.Unknown); err != nil {
			return nil, err
		}
	}

	ds := dataset.New()
	dropped := 0
	for i := 0; i < t.NumRows(); i++ {
		row, ok := ing.canonicalRow(t, i)
		if !ok {
			dropped++
			continue
		}
		ds.Append(row)
	}

	if ds.Empty() {
		return nil, &IngestionError{FieldRows: fieldRowCounts(t, report)}
	}

	ing.log.Info("dataset cleaned", logging.Fields{
		"rows":    ds.Len(),
		"dropped": dropped,
	})
	return ds, nil
}

// canonicalRow converts one table row, reporting ok=false when the row must
// be dropped.
func (ing *Ingestor) canonicalRow(t *dataset.Table, i int) (dataset.Row, bool) {
	f1, ok := numericCell(t, i, dataset.FieldF1)
	if !ok {
		return dataset.Row{}, false
	}
	f2, ok := numericCell(t, i, dataset.FieldF2)
	if !ok {
		return dataset.Row{}, false
	}
	if f1 < dataset.MinFormantHz || f1 > dataset.MaxFormantHz ||
		f2 < dataset.MinFormantHz || f2 > dataset.MaxFormantHz {
		return dataset.Row{}, false
	}

	row := dataset.Row{
		F1:             f1,
		F2:             f2,
		Vowel:          stringCell(t, i, dataset.FieldVowel, dataset.Unknown),
		Speaker:        stringCell(t, i, dataset.FieldSpeaker, dataset.Unknown),
		NativeLanguage: stringCell(t, i, dataset.FieldNativeLanguage, dataset.Unknown),
		Gender:         stringCell(t, i, dataset.FieldGender, ""),
	}

	if v, ok := numericCell(t, i, dataset.FieldF3); ok {
		row.F3 = dataset.Float64Ptr(v)
	}
	if v, ok := numericCell(t, i, dataset.FieldTime); ok {
		row.Time = dataset.Float64Ptr(v)
	}
	if v, ok := numericCell(t, i, dataset.FieldDuration); ok {
		row.Duration = dataset.Float64Ptr(v)
	}
	if v, ok := numericCell(t, i, dataset.FieldAge); ok {
		row.Age = dataset.Float64Ptr(v)
	}

	return row, true
}

func numericCell(t *dataset.Table, i int, col string) (float64, bool) {
	cell, ok := t.Cell(i, col)
	if !ok || dataset.IsNull(cell) {
		return 0, false
	}
	v, err := dataset.ParseFloat(cell)
	if err != nil {
		return 0, false
	}
	return v, true
}

func stringCell(t *dataset.Table, i int, col, fallback string) string {
	cell, ok := t.Cell(i, col)
	if !ok || dataset.IsNull(cell) {
		return fallback
	}
	return strings.TrimSpace(cell)
}

// fieldRowCounts summarizes non-null counts for the diagnostic payload of an
// IngestionError.
func fieldRowCounts(t *dataset.Table, report *schema.DetectionReport) map[string]int {
	counts := make(map[string]int)
	if report != nil {
		for field, detail := range report.Details {
			counts[field] = detail.NonNullCount
		}
		return counts
	}
	for _, field := range dataset.CanonicalFields {
		if t.HasColumn(field) {
			nonNull, _ := t.NullCounts(field)
			counts[field] = nonNull
		}
	}
	return counts
}
