// Package table provides the ordered, column-indexed container that every
// pipeline stage consumes and produces. A cell holds whatever the source gave
// us: a raw string from the CSV reader, or a typed float64/time.Time after
// validation. A nil cell means the value is missing.
package table

import "strings"

// Table is an ordered set of named columns over rows of cells.
// Stages treat tables as immutable inputs; anything that needs to modify
// rows works on a Clone.
type Table struct {
	cols []string
	rows [][]any
}

// New creates an empty table with the given column order.
func New(cols []string) *Table {
	c := make([]string, len(cols))
	copy(c, cols)
	return &Table{cols: c}
}

// FromRecords builds a table from a CSV-style header plus string records.
// Short records are padded with missing cells, long records are truncated to
// the header width. Empty strings become missing cells, matching how the
// original upload layer treated blank fields.
func FromRecords(header []string, records [][]string) *Table {
	t := New(header)
	for _, rec := range records {
		row := make([]any, len(header))
		for i := range header {
			if i < len(rec) && rec[i] != "" {
				row[i] = rec[i]
			}
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	c := make([]string, len(t.cols))
	copy(c, t.cols)
	return c
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// IsEmpty reports whether the table is nil or has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// ColumnIndex returns the position of the named column, or -1.
// Matching ignores case and surrounding whitespace, since bank exports are
// inconsistent about both.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for i, c := range t.cols {
		if strings.ToLower(strings.TrimSpace(c)) == want {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Row returns the cells of row i. The returned slice is the backing storage;
// callers that want to mutate must Clone first.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Cell returns the value at row i in the named column.
// The second return is false when the column does not exist.
func (t *Table) Cell(i int, name string) (any, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 || i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i][idx], true
}

// SetCell replaces the value at row i in the named column.
func (t *Table) SetCell(i int, name string, v any) bool {
	idx := t.ColumnIndex(name)
	if idx < 0 || i < 0 || i >= len(t.rows) {
		return false
	}
	t.rows[i][idx] = v
	return true
}

// AppendRow adds a row, padding or truncating to the column count.
func (t *Table) AppendRow(cells []any) {
	row := make([]any, len(t.cols))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// ColumnValues returns all cells of the named column in row order,
// or nil if the column does not exist.
func (t *Table) ColumnValues(name string) []any {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	vals := make([]any, len(t.rows))
	for i, row := range t.rows {
		vals[i] = row[idx]
	}
	return vals
}

// Clone returns a deep copy of the table (cell values are shared, the row
// and column slices are not).
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := New(t.cols)
	out.rows = make([][]any, len(t.rows))
	for i, row := range t.rows {
		r := make([]any, len(row))
		copy(r, row)
		out.rows[i] = r
	}
	return out
}

// Rename returns a new table with columns renamed per the given map.
// Map keys match exactly against the current column names; columns not in
// the map keep their names. Rows are copied.
func (t *Table) Rename(mapping map[string]string) *Table {
	out := t.Clone()
	for i, c := range out.cols {
		if target, ok := mapping[c]; ok {
			out.cols[i] = target
		}
	}
	return out
}

// Select returns a new table containing only the listed columns that exist,
// in the listed order. Rows are copied.
func (t *Table) Select(cols []string) *Table {
	var keep []string
	var idxs []int
	for _, c := range cols {
		if idx := t.ColumnIndex(c); idx >= 0 {
			keep = append(keep, t.cols[idx])
			idxs = append(idxs, idx)
		}
	}
	out := New(keep)
	for _, row := range t.rows {
		cells := make([]any, len(idxs))
		for j, idx := range idxs {
			cells[j] = row[idx]
		}
		out.rows = append(out.rows, cells)
	}
	return out
}
