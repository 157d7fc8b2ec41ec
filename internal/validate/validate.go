// Package validate runs the row-level cleaning pass over a normalized table.
// Rows that fail cleaning are excluded from the output and recorded in the
// report with their original 1-based row number; the pass always continues to
// the end of the table. This strictness is deliberate and differs from the
// permissive date coercion in analytics.MonthlyTrends, which serves chart
// rendering rather than ingestion reporting.
package validate

import (
	"fmt"

	"github.com/dvloznov/spendlens/internal/clean"
	"github.com/dvloznov/spendlens/internal/table"
)

// RowError records one skipped row. Row is 1-indexed by original position.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Report summarizes a validation pass. ValidRows + SkippedRows always equals
// TotalRows, and len(Errors) equals SkippedRows.
type Report struct {
	TotalRows   int        `json:"total_rows"`
	ValidRows   int        `json:"valid_rows"`
	SkippedRows int        `json:"skipped_rows"`
	Errors      []RowError `json:"errors"`
	Warnings    []string   `json:"warnings"`
}

// Analysis quality degrades below this many transactions.
const minUsefulRows = 10

// Validate cleans every row under the default day-first date policy.
func Validate(t *table.Table) (*table.Table, *Report) {
	return ValidateDayFirst(t, true)
}

// ValidateDayFirst cleans every row of the table, returning the valid subset
// with typed Amount (float64) and Date (time.Time) cells plus a report.
// dayFirst selects the reading of ambiguous numeric dates.
func ValidateDayFirst(t *table.Table, dayFirst bool) (*table.Table, *Report) {
	if t.IsEmpty() {
		return table.New(nil), &Report{
			Errors:   []RowError{},
			Warnings: []string{"No data to validate"},
		}
	}

	report := &Report{
		TotalRows: t.Len(),
		Errors:    []RowError{},
	}

	hasAmount := t.HasColumn("Amount")
	hasDate := t.HasColumn("Date")

	cleaned := table.New(t.Columns())
	for i := 0; i < t.Len(); i++ {
		rowNumber := i + 1

		if !hasAmount || !hasDate {
			report.Errors = append(report.Errors, RowError{Row: rowNumber, Reason: "Missing required columns (Amount or Date)"})
			continue
		}

		rawAmount, _ := t.Cell(i, "Amount")
		amount, err := clean.Amount(rawAmount)
		if err != nil {
			report.Errors = append(report.Errors, RowError{Row: rowNumber, Reason: fmt.Sprintf("Invalid amount - %s", err)})
			continue
		}

		rawDate, _ := t.Cell(i, "Date")
		date, err := clean.Date(rawDate, dayFirst)
		if err != nil {
			report.Errors = append(report.Errors, RowError{Row: rowNumber, Reason: fmt.Sprintf("Invalid date - %s", err)})
			continue
		}

		row := make([]any, len(t.Row(i)))
		copy(row, t.Row(i))
		cleaned.AppendRow(row)
		last := cleaned.Len() - 1
		cleaned.SetCell(last, "Amount", amount)
		cleaned.SetCell(last, "Date", date)
	}

	report.ValidRows = cleaned.Len()
	report.SkippedRows = report.TotalRows - report.ValidRows
	report.Warnings = buildWarnings(report)

	return cleaned, report
}

func buildWarnings(r *Report) []string {
	warnings := []string{}

	if r.ValidRows < minUsefulRows {
		plural := "s"
		if r.ValidRows == 1 {
			plural = ""
		}
		warnings = append(warnings, fmt.Sprintf(
			"Only %d valid transaction%s found. Analysis works best with at least %d transactions.",
			r.ValidRows, plural, minUsefulRows))
	}

	if r.SkippedRows > 0 && r.SkippedRows == r.TotalRows {
		warnings = append(warnings, "All rows were skipped due to validation errors. Please check your CSV file.")
	} else if float64(r.SkippedRows) > float64(r.TotalRows)*0.5 {
		warnings = append(warnings, fmt.Sprintf(
			"More than half of the rows (%d/%d) were skipped. Please review your data quality.",
			r.SkippedRows, r.TotalRows))
	}

	return warnings
}
