package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a raw tabular dataset as read from a delimited or spreadsheet
// file: an ordered set of named columns holding string cells. Detection and
// normalization operate on a Table before rows are converted to canonical
// form.
type Table struct {
	columns []string
	cells   map[string][]string
	numRows int
}

// NewTable creates an empty table with the given column order.
// Duplicate column names keep the first occurrence only.
func NewTable(columns []string) *Table {
	t := &Table{
		cells: make(map[string][]string, len(columns)),
	}
	for _, col := range columns {
		if _, ok := t.cells[col]; ok {
			continue
		}
		t.columns = append(t.columns, col)
		t.cells[col] = nil
	}
	return t
}

// AppendRow appends one row of cells in column order. Missing trailing cells
// are recorded as empty; extra cells are dropped.
func (t *Table) AppendRow(row []string) {
	for i, col := range t.columns {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		t.cells[col] = append(t.cells[col], val)
	}
	t.numRows++
}

// Columns returns the column names in their original order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return t.numRows
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// Column returns the raw cells of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	vals, ok := t.cells[name]
	return vals, ok
}

// Cell returns the raw cell at (row, column).
func (t *Table) Cell(row int, name string) (string, bool) {
	vals, ok := t.cells[name]
	if !ok || row < 0 || row >= len(vals) {
		return "", false
	}
	return vals[row], true
}

// IsNull reports whether a raw cell value represents a missing observation.
// Empty cells and the usual NA spellings from spreadsheet exports all count.
func IsNull(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}

// ParseFloat parses a numeric cell, tolerating surrounding whitespace and
// comma thousands separators.
func ParseFloat(val string) (float64, error) {
	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

// Floats returns the parsed non-null values of a column in row order, and
// whether the column is numeric (every non-null cell parses as a number).
// A column with no non-null cells is not numeric.
func (t *Table) Floats(name string) ([]float64, bool) {
	vals, ok := t.cells[name]
	if !ok {
		return nil, false
	}

	var out []float64
	for _, v := range vals {
		if IsNull(v) {
			continue
		}
		f, err := ParseFloat(v)
		if err != nil {
			return nil, false
		}
		out = append(out, f)
	}

	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Strings returns the non-null values of a column in row order.
func (t *Table) Strings(name string) []string {
	vals, ok := t.cells[name]
	if !ok {
		return nil
	}

	var out []string
	for _, v := range vals {
		if IsNull(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// NullCounts returns the non-null and null cell counts of a column.
func (t *Table) NullCounts(name string) (nonNull, null int) {
	vals, ok := t.cells[name]
	if !ok {
		return 0, 0
	}
	for _, v := range vals {
		if IsNull(v) {
			null++
		} else {
			nonNull++
		}
	}
	return nonNull, null
}

// UniqueStrings returns the distinct non-null values of a column in first-seen
// order.
func (t *Table) UniqueStrings(name string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range t.Strings(name) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Rename returns a copy of the table with columns renamed according to the
// given old-name to new-name mapping. Columns not in the mapping are
// preserved unchanged. The receiver is not mutated.
func (t *Table) Rename(mapping map[string]string) *Table {
	out := &Table{
		cells:   make(map[string][]string, len(t.columns)),
		numRows: t.numRows,
	}
	for _, col := range t.columns {
		name := col
		if renamed, ok := mapping[col]; ok {
			name = renamed
		}
		vals := make([]string, len(t.cells[col]))
		copy(vals, t.cells[col])
		out.columns = append(out.columns, name)
		out.cells[name] = vals
	}
	return out
}

// AddConstantColumn appends a column where every row holds the same value.
// Returns an error if the column already exists.
func (t *Table) AddConstantColumn(name, value string) error {
	if _, ok := t.cells[name]; ok {
		return fmt.Errorf("column %q already exists", name)
	}
	vals := make([]string, t.numRows)
	for i := range vals {
		vals[i] = value
	}
	t.columns = append(t.columns, name)
	t.cells[name] = vals
	return nil
}
