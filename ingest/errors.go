package ingest

import (
	"fmt"
	"sort"
	"strings"
)

// IngestionError reports that a file produced no valid rows after detection,
// cleaning and range filtering. It carries how many non-null values each
// detected canonical field had in the source, so a caller can tell a column
// mismatch from a file of out-of-range measurements.
type IngestionError struct {
	// FieldRows maps canonical field name to the number of non-null source
	// values detected for it.
	FieldRows map[string]int
}

func (e *IngestionError) Error() string {
	var b strings.Builder
	b.WriteString("no valid data: every row was dropped during cleaning. ")
	b.WriteString("Check that F1 and F2 values are in the 100-4000 Hz range")

	if len(e.FieldRows) > 0 {
		fields := make([]string, 0, len(e.FieldRows))
		for f := range e.FieldRows {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, fmt.Sprintf("%s=%d", f, e.FieldRows[f]))
		}
		b.WriteString(" (detected field rows: ")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	return b.String()
}
