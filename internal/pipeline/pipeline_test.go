package pipeline

import (
	"context"
	"strings"
	"testing"
)

const monzoCSV = `Date,Name,Amount,Category
01/02/2024,Tesco,-12.50,
02/02/2024,Salary,2500.00,
03/02/2024,Netflix,-9.99,
`

func TestProcessMonzoCSV(t *testing.T) {
	result := Process(context.Background(), []byte(monzoCSV), "statement.csv")

	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}
	if result.Format != "monzo" {
		t.Errorf("Format = %q, want monzo", result.Format)
	}
	if result.FormatDisplay() != "Monzo" {
		t.Errorf("FormatDisplay = %q", result.FormatDisplay())
	}
	if result.Report.ValidRows != 3 || result.Report.SkippedRows != 0 {
		t.Errorf("report = %+v", result.Report)
	}
	if result.File.Encoding != "utf-8" {
		t.Errorf("encoding = %q", result.File.Encoding)
	}
	if result.File.Rows != 3 {
		t.Errorf("rows = %d", result.File.Rows)
	}

	// Categorization ran over the cleaned table.
	if v, _ := result.Table.Cell(0, "Category"); v != "Groceries" {
		t.Errorf("Category = %v", v)
	}
	if v, _ := result.Table.Cell(1, "Category"); v != "Income" {
		t.Errorf("Category = %v", v)
	}
}

func TestProcessFallbackFormat(t *testing.T) {
	csv := "Transaction Date,Merchant,Value\n" +
		"01/02/2024,Tesco,-12.50\n" +
		"02/02/2024,Salary,2500.00\n"

	result := Process(context.Background(), []byte(csv), "export.csv")

	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}
	if result.Format != "auto-detected" {
		t.Errorf("Format = %q", result.Format)
	}
	if result.FormatDisplay() != "Auto-detected" {
		t.Errorf("FormatDisplay = %q", result.FormatDisplay())
	}
}

func TestProcessFailures(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		want     string
	}{
		{
			name:     "wrong extension",
			content:  monzoCSV,
			filename: "statement.pdf",
			want:     "File format not recognized. Please upload a CSV file.",
		},
		{
			name:     "empty file",
			content:  "",
			filename: "empty.csv",
			want:     "File is empty. Please upload a valid CSV.",
		},
		{
			name:     "undetectable columns",
			content:  "Foo,Bar\nhello,world\n",
			filename: "odd.csv",
			want:     "Unable to detect required columns (Date, Amount). Please check file format.",
		},
		{
			name:     "nothing survives validation",
			content:  "Date,Name,Amount,Category\nbad date,Tesco,abc,\n",
			filename: "broken.csv",
			want:     "No valid transactions found after validation. Please check your CSV data.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Process(context.Background(), []byte(tt.content), tt.filename)
			if result.Success {
				t.Fatal("expected failure")
			}
			if result.Error != tt.want {
				t.Errorf("Error = %q, want %q", result.Error, tt.want)
			}
			if result.Report != nil {
				t.Error("failed result should not carry a report")
			}
		})
	}
}

func TestProcessWindows1252Fallback(t *testing.T) {
	// 0xE9 is é in Windows-1252 and invalid as a UTF-8 start byte.
	csv := "Date,Name,Amount,Category\n01/02/2024,Caf\xe9 Nero,-3.20,\n"

	result := Process(context.Background(), []byte(csv), "latin.csv")

	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}
	if result.File.Encoding != "windows-1252" {
		t.Errorf("encoding = %q, want windows-1252", result.File.Encoding)
	}
	if v, _ := result.Table.Cell(0, "Description"); v != "Café Nero" {
		t.Errorf("Description = %v", v)
	}
}

func TestProcessRaggedRows(t *testing.T) {
	csv := "Date,Name,Amount,Category\n" +
		"01/02/2024,Tesco,-12.50,Groceries\n" +
		"02/02/2024,Short\n" + // missing amount: skipped, not fatal
		"03/02/2024,Salary,2500.00\n"

	result := Process(context.Background(), []byte(csv), "ragged.csv")

	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}
	if result.Report.ValidRows != 2 || result.Report.SkippedRows != 1 {
		t.Errorf("report = %+v", result.Report)
	}
	if result.Report.Errors[0].Reason != "Invalid amount - Amount is missing" {
		t.Errorf("reason = %q", result.Report.Errors[0].Reason)
	}
}

func TestProcessCaseInsensitiveExtension(t *testing.T) {
	result := Process(context.Background(), []byte(monzoCSV), "STATEMENT.CSV")
	if !result.Success {
		t.Fatalf("Process failed: %s", result.Error)
	}
}

func TestFormatDisplay(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"", "Unknown"},
		{"monzo", "Monzo"},
		{"revolut", "Revolut"},
		{"barclays", "Barclays"},
		{"auto-detected", "Auto-detected"},
		{"something-else", "Standard"},
	}
	for _, tt := range tests {
		r := &Result{Format: tt.format}
		if got := r.FormatDisplay(); got != tt.want {
			t.Errorf("FormatDisplay(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

// A warning about low row counts must survive into the report verbatim.
func TestProcessLowRowWarning(t *testing.T) {
	result := Process(context.Background(), []byte(monzoCSV), "statement.csv")
	if !result.Success {
		t.Fatal(result.Error)
	}

	found := false
	for _, w := range result.Report.Warnings {
		if strings.Contains(w, "Only 3 valid transactions found") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v", result.Report.Warnings)
	}
}
