package detect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/spendlens/internal/table"
)

// ErrNoRequiredColumns is returned when neither header matching nor content
// sniffing can locate the Date and Amount columns. The text is user-facing.
var ErrNoRequiredColumns = errors.New("Unable to detect required columns (Date, Amount). Please check file format.")

// Detect matches the table's headers against the bank format registry.
// Returns the first registered format whose required headers are all present,
// or false when none match.
func Detect(t *table.Table) (string, bool) {
	if t == nil {
		return "", false
	}
	headers := make(map[string]bool)
	for _, c := range t.Columns() {
		headers[strings.ToLower(strings.TrimSpace(c))] = true
	}
	for _, f := range Registry {
		matched := true
		for _, m := range f.Columns {
			if !headers[m.Source] {
				matched = false
				break
			}
		}
		if matched {
			return f.ID, true
		}
	}
	return "", false
}

// Normalize renames a detected format's source headers to their canonical
// names and drops everything else. A Name-derived description never
// overwrites a genuine Description column.
func Normalize(t *table.Table, formatID string) (*table.Table, error) {
	var format *BankFormat
	for i := range Registry {
		if Registry[i].ID == formatID {
			format = &Registry[i]
			break
		}
	}
	if format == nil {
		return nil, fmt.Errorf("unknown format: %s", formatID)
	}

	rename := make(map[string]string)
	for _, m := range format.Columns {
		if idx := t.ColumnIndex(m.Source); idx >= 0 {
			rename[t.Columns()[idx]] = m.Target
		}
	}
	out := t.Rename(rename)

	// Monzo exports carry both a Name and a more detailed Description; when
	// only Name survives the rename, it stands in as the description.
	if out.HasColumn("Name") && !out.HasColumn("Description") {
		out = copyColumn(out, "Name", "Description")
	}

	return out.Select(CanonicalColumns), nil
}

// DetectAndNormalize is the combined entry point: known formats first, then
// content sniffing. The label is the bank id, or "auto-detected" when the
// fallback produced the mapping.
func DetectAndNormalize(t *table.Table) (*table.Table, string, error) {
	if id, ok := Detect(t); ok {
		out, err := Normalize(t, id)
		if err != nil {
			return nil, "", err
		}
		return out, id, nil
	}

	mapping := FallbackDetect(t)
	if mapping["Date"] == "" || mapping["Amount"] == "" {
		return nil, "", ErrNoRequiredColumns
	}
	return applyMapping(t, mapping), "auto-detected", nil
}

// applyMapping renames sniffed source columns to their canonical roles and
// narrows to the canonical shape, same output contract as Normalize.
func applyMapping(t *table.Table, mapping map[string]string) *table.Table {
	rename := make(map[string]string)
	for canonical, source := range mapping {
		if source != "" {
			rename[source] = canonical
		}
	}
	return t.Rename(rename).Select(CanonicalColumns)
}

// copyColumn appends a new column whose cells duplicate an existing one.
func copyColumn(t *table.Table, from, to string) *table.Table {
	cols := append(t.Columns(), to)
	out := table.New(cols)
	fromIdx := t.ColumnIndex(from)
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		cells := make([]any, 0, len(cols))
		cells = append(cells, row...)
		cells = append(cells, row[fromIdx])
		out.AppendRow(cells)
	}
	return out
}
