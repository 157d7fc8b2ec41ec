// Package export serializes a transaction table back out as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/dvloznov/spendlens/internal/table"
)

const dateLayout = "2006-01-02"

// WriteCSV writes the table with a header row. Dates render as YYYY-MM-DD,
// amounts with two decimals, missing cells as empty fields.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		record := make([]string, 0, len(t.Columns()))
		for _, col := range t.Columns() {
			v, _ := t.Cell(i, col)
			record = append(record, formatCell(v))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table as an array of row objects.
func WriteJSON(w io.Writer, t *table.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(t))
}

// Records converts the table rows to maps keyed by column name, with the
// same normalization as the CSV output: dates as strings, amounts rounded
// to two decimals.
func Records(t *table.Table) []map[string]any {
	records := make([]map[string]any, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		record := make(map[string]any, len(t.Columns()))
		for _, col := range t.Columns() {
			v, _ := t.Cell(i, col)
			record[col] = normalizeCell(v)
		}
		records = append(records, record)
	}
	return records
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(dateLayout)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

func normalizeCell(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.Format(dateLayout)
	case float64:
		return math.Round(x*100) / 100
	default:
		return v
	}
}
