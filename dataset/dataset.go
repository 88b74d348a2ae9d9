package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Canonical field names shared across detection, ingestion and extraction.
const (
	FieldF1             = "F1"
	FieldF2             = "F2"
	FieldF3             = "F3"
	FieldVowel          = "vowel"
	FieldSpeaker        = "speaker"
	FieldNativeLanguage = "native_language"
	FieldTime           = "time"
	FieldDuration       = "duration"
	FieldGender         = "gender"
	FieldAge            = "age"
)

// CanonicalFields lists every canonical field in detection order.
var CanonicalFields = []string{
	FieldF1, FieldF2, FieldF3,
	FieldVowel, FieldSpeaker, FieldNativeLanguage,
	FieldTime, FieldDuration, FieldGender, FieldAge,
}

// Formant validity range in Hz. Measurements outside this range are treated
// as tracker artifacts and dropped.
const (
	MinFormantHz = 100.0
	MaxFormantHz = 4000.0
)

// Unknown is the default label for missing speaker, language and vowel
// values. Canonical rows never carry empty strings for these fields.
const Unknown = "unknown"

// Row is one phonetic measurement in canonical form.
type Row struct {
	Vowel          string   `json:"vowel"`
	F1             float64  `json:"f1"`
	F2             float64  `json:"f2"`
	F3             *float64 `json:"f3,omitempty"`
	Speaker        string   `json:"speaker"`
	NativeLanguage string   `json:"native_language"`
	Gender         string   `json:"gender,omitempty"`
	Age            *float64 `json:"age,omitempty"`
	Time           *float64 `json:"time,omitempty"`
	Duration       *float64 `json:"duration,omitempty"`
	File           string   `json:"file,omitempty"`
}

// Dataset is an ordered collection of canonical rows. Row order carries no
// meaning; rows are independent observations.
type Dataset struct {
	Rows []Row `json:"rows"`
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{}
}

// Append adds rows to the dataset.
func (d *Dataset) Append(rows ...Row) {
	d.Rows = append(d.Rows, rows...)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Empty reports whether the dataset has no rows. An empty dataset is never
// a valid ingestion result.
func (d *Dataset) Empty() bool {
	return len(d.Rows) == 0
}

// Vowels returns the distinct vowel labels in first-seen order.
func (d *Dataset) Vowels() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d.Rows {
		if _, ok := seen[r.Vowel]; ok {
			continue
		}
		seen[r.Vowel] = struct{}{}
		out = append(out, r.Vowel)
	}
	return out
}

// GroupByVowel returns row indices per distinct vowel label.
func (d *Dataset) GroupByVowel() map[string][]int {
	groups := make(map[string][]int)
	for i, r := range d.Rows {
		groups[r.Vowel] = append(groups[r.Vowel], i)
	}
	return groups
}

// GroupBy returns row indices grouped by a canonical field. Supported fields
// are vowel, speaker and native_language.
func (d *Dataset) GroupBy(field string) (map[string][]int, error) {
	key := func(r Row) string {
		switch field {
		case FieldVowel:
			return r.Vowel
		case FieldSpeaker:
			return r.Speaker
		case FieldNativeLanguage:
			return r.NativeLanguage
		}
		return ""
	}

	switch field {
	case FieldVowel, FieldSpeaker, FieldNativeLanguage:
	default:
		return nil, fmt.Errorf("cannot group by field %q", field)
	}

	groups := make(map[string][]int)
	for i, r := range d.Rows {
		groups[key(r)] = append(groups[key(r)], i)
	}
	return groups, nil
}

// F1Values returns all F1 measurements in row order.
func (d *Dataset) F1Values() []float64 {
	out := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.F1
	}
	return out
}

// F2Values returns all F2 measurements in row order.
func (d *Dataset) F2Values() []float64 {
	out := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.F2
	}
	return out
}

// WriteCSV renders the dataset as CSV sorted by vowel ascending then F1
// ascending, the persisted-artifact layout callers expect.
func (d *Dataset) WriteCSV(w io.Writer) error {
	rows := make([]Row, len(d.Rows))
	copy(rows, d.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Vowel != rows[j].Vowel {
			return rows[i].Vowel < rows[j].Vowel
		}
		return rows[i].F1 < rows[j].F1
	})

	cw := csv.NewWriter(w)
	header := []string{
		FieldVowel, FieldF1, FieldF2, FieldF3,
		FieldSpeaker, FieldNativeLanguage,
		FieldTime, FieldDuration, "file",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Vowel,
			formatFloat(r.F1),
			formatFloat(r.F2),
			formatOptional(r.F3),
			r.Speaker,
			r.NativeLanguage,
			formatOptional(r.Time),
			formatOptional(r.Duration),
			r.File,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// Float64Ptr returns a pointer to v, a convenience for optional fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
