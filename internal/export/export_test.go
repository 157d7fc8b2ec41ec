package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dvloznov/spendlens/internal/table"
)

func exportTable() *table.Table {
	tbl := table.New([]string{"Date", "Description", "Amount", "Category"})
	tbl.AppendRow([]any{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "Tesco", float64(-12.5), "Groceries"})
	tbl.AppendRow([]any{time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), "Salary", float64(2500), "Income"})
	tbl.AppendRow([]any{time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), nil, float64(-1), nil})
	return tbl
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportTable()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[0] != "Date,Description,Amount,Category" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2024-02-01,Tesco,-12.50,Groceries" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2024-02-02,Salary,2500.00,Income" {
		t.Errorf("row 2 = %q", lines[2])
	}
	// Missing cells render as empty fields.
	if lines[3] != "2024-02-03,,-1.00," {
		t.Errorf("row 3 = %q", lines[3])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, exportTable()); err != nil {
		t.Fatal(err)
	}

	var records []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d", len(records))
	}
	if records[0]["Date"] != "2024-02-01" {
		t.Errorf("Date = %v", records[0]["Date"])
	}
	if records[0]["Amount"] != -12.5 {
		t.Errorf("Amount = %v", records[0]["Amount"])
	}
	if records[2]["Description"] != nil {
		t.Errorf("missing cell = %v", records[2]["Description"])
	}
}

func TestRecordsRoundsAmounts(t *testing.T) {
	tbl := table.New([]string{"Amount"})
	tbl.AppendRow([]any{float64(10.456)})

	records := Records(tbl)
	if records[0]["Amount"] != 10.46 {
		t.Errorf("Amount = %v, want 10.46", records[0]["Amount"])
	}
}

func TestWriteCSVEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, table.New([]string{"Date", "Amount"})); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "Date,Amount" {
		t.Errorf("output = %q", buf.String())
	}
}
