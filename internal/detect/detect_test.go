package detect

import (
	"errors"
	"testing"

	"github.com/dvloznov/spendlens/internal/table"
)

func monzoTable() *table.Table {
	return table.FromRecords(
		[]string{"Date", "Name", "Amount", "Category"},
		[][]string{
			{"01/02/2024", "Tesco", "-12.50", "Groceries"},
			{"02/02/2024", "Salary", "2500.00", ""},
		},
	)
}

func TestDetectKnownFormats(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    string
	}{
		{"monzo", []string{"Date", "Name", "Amount", "Category"}, "monzo"},
		{"monzo lowercase", []string{"date", "name", "amount", "category"}, "monzo"},
		{"revolut", []string{"Started Date", "Description", "Amount", "Category"}, "revolut"},
		{"barclays", []string{"Date", "Memo", "Amount"}, "barclays"},
		{"extra columns ignored", []string{"Date", "Memo", "Amount", "Balance"}, "barclays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New(tt.headers)
			got, ok := Detect(tbl)
			if !ok {
				t.Fatalf("Detect(%v) matched nothing", tt.headers)
			}
			if got != tt.want {
				t.Errorf("Detect(%v) = %q, want %q", tt.headers, got, tt.want)
			}
		})
	}
}

// When headers satisfy more than one format, the first registration wins.
func TestDetectRegistryOrder(t *testing.T) {
	tbl := table.New([]string{"Date", "Name", "Memo", "Amount", "Category"})
	got, ok := Detect(tbl)
	if !ok || got != "monzo" {
		t.Errorf("Detect = %q, %v; want monzo (registry order)", got, ok)
	}
}

func TestDetectNoMatch(t *testing.T) {
	tbl := table.New([]string{"Foo", "Bar"})
	if id, ok := Detect(tbl); ok {
		t.Errorf("Detect matched %q on unknown headers", id)
	}
}

func TestNormalizeMonzo(t *testing.T) {
	out, err := Normalize(monzoTable(), "monzo")
	if err != nil {
		t.Fatal(err)
	}

	for _, col := range []string{"Date", "Description", "Amount", "Category"} {
		if !out.HasColumn(col) {
			t.Errorf("normalized table missing %q, has %v", col, out.Columns())
		}
	}

	// The Name column stands in as the description.
	if v, _ := out.Cell(0, "Description"); v != "Tesco" {
		t.Errorf("Description = %v, want Tesco", v)
	}
}

func TestNormalizeDoesNotOverwriteDescription(t *testing.T) {
	tbl := table.FromRecords(
		[]string{"Date", "Name", "Description", "Amount", "Category"},
		[][]string{{"01/02/2024", "TESCO-1234", "Tesco Superstore", "-12.50", ""}},
	)

	out, err := Normalize(tbl, "monzo")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out.Cell(0, "Description"); v != "Tesco Superstore" {
		t.Errorf("Description = %v, want the genuine description preserved", v)
	}
}

func TestNormalizeUnknownFormat(t *testing.T) {
	if _, err := Normalize(monzoTable(), "natwest"); err == nil {
		t.Error("expected error for unregistered format")
	}
}

func TestDetectAndNormalizeFallback(t *testing.T) {
	tbl := table.FromRecords(
		[]string{"Transaction Date", "Merchant", "Value"},
		[][]string{
			{"01/02/2024", "Tesco", "-12.50"},
			{"02/02/2024", "Amazon", "-30.00"},
			{"03/02/2024", "Salary", "2500.00"},
		},
	)

	out, format, err := DetectAndNormalize(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if format != "auto-detected" {
		t.Errorf("format = %q, want auto-detected", format)
	}
	if v, _ := out.Cell(0, "Date"); v != "01/02/2024" {
		t.Errorf("Date = %v", v)
	}
	if v, _ := out.Cell(0, "Amount"); v != "-12.50" {
		t.Errorf("Amount = %v", v)
	}
	if v, _ := out.Cell(1, "Description"); v != "Amazon" {
		t.Errorf("Description = %v", v)
	}
}

func TestDetectAndNormalizeUndetectable(t *testing.T) {
	tbl := table.FromRecords(
		[]string{"Foo", "Bar"},
		[][]string{{"hello", "world"}},
	)

	_, _, err := DetectAndNormalize(tbl)
	if !errors.Is(err, ErrNoRequiredColumns) {
		t.Fatalf("err = %v, want ErrNoRequiredColumns", err)
	}
	want := "Unable to detect required columns (Date, Amount). Please check file format."
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestFallbackDetectRoles(t *testing.T) {
	tbl := table.FromRecords(
		[]string{"When", "What", "How Much", "My Category"},
		[][]string{
			{"2024-02-01", "Tesco", "£-12.50", "Groceries"},
			{"2024-02-02", "Amazon", "-30.00", "Shopping"},
		},
	)

	mapping := FallbackDetect(tbl)
	if mapping["Date"] != "When" {
		t.Errorf("Date role = %q, want When", mapping["Date"])
	}
	if mapping["Amount"] != "How Much" {
		t.Errorf("Amount role = %q, want How Much", mapping["Amount"])
	}
	if mapping["Description"] != "What" {
		t.Errorf("Description role = %q, want What", mapping["Description"])
	}
	if mapping["Category"] != "My Category" {
		t.Errorf("Category role = %q, want My Category", mapping["Category"])
	}
}

// A text column whose header does not mention "category" never takes the
// Category role.
func TestFallbackDetectCategoryNeedsHeaderHint(t *testing.T) {
	tbl := table.FromRecords(
		[]string{"When", "What", "How Much", "Notes"},
		[][]string{
			{"2024-02-01", "Tesco", "-12.50", "weekly shop"},
			{"2024-02-02", "Amazon", "-30.00", "gift"},
		},
	)

	mapping := FallbackDetect(tbl)
	if src, ok := mapping["Category"]; ok {
		t.Errorf("Category assigned to %q, want unassigned", src)
	}
}

func TestFallbackDetectSparseColumns(t *testing.T) {
	// Below the 70% hit rate the date role must not be assigned.
	tbl := table.FromRecords(
		[]string{"A", "B"},
		[][]string{
			{"2024-02-01", "-1"},
			{"not a date", "-2"},
			{"also not", "-3"},
		},
	)

	mapping := FallbackDetect(tbl)
	if src, ok := mapping["Date"]; ok {
		t.Errorf("Date assigned to %q despite low hit rate", src)
	}
}
