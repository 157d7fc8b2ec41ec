package clean

import (
	"strings"
	"testing"
	"time"
)

func TestDetectDateFormat(t *testing.T) {
	tests := []struct {
		input string
		want  DateFormat
	}{
		{"2024-12-25", FormatISO},
		{"2024/12/25", FormatISO},
		{"25/12/2024", FormatDayFirst},
		{"12/25/2024", FormatMonthFirst},
		{"03/04/2024", FormatAmbiguous},
		{"1/2/24", FormatAmbiguous},
		{"banana", FormatUnknown},
		{"", FormatUnknown},
	}

	for _, tt := range tests {
		if got := DetectDateFormat(tt.input); got != tt.want {
			t.Errorf("DetectDateFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDateDayFirst(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  time.Time
	}{
		{"uk slash", "25/12/2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"uk dash", "25-12-2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"uk dot", "25.12.2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"iso", "2024-12-25", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"ambiguous reads day first", "03/04/2024", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)},
		{"two digit year 2000s", "01/02/30", time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"two digit year 1900s", "01/02/69", time.Date(1969, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"with time", "25/12/2024 14:30", time.Date(2024, 12, 25, 14, 30, 0, 0, time.UTC)},
		{"with seconds", "2024-12-25 14:30:59", time.Date(2024, 12, 25, 14, 30, 59, 0, time.UTC)},
		{"textual", "25 Dec 2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"textual long", "December 25, 2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"native time passthrough", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.input, true)
			if err != nil {
				t.Fatalf("Date(%v) error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Date(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateMonthFirstPolicy(t *testing.T) {
	got, err := Date("03/04/2024", false)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Date(03/04/2024, monthFirst) = %v, want %v", got, want)
	}
}

func TestDateErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		dayFirst bool
		want     string
	}{
		{"nil cell", nil, true, "Date is missing"},
		{"whitespace only", "   ", true, "Date is empty"},
		{
			"unknown format hint", "banana", true,
			"Cannot parse 'banana' as date. Expected format: DD/MM/YYYY (e.g., 25/12/2024) or YYYY-MM-DD",
		},
		{
			"month first under day first policy", "12/25/2024", true,
			"Cannot parse '12/25/2024' as date. Invalid day or month value (detected MM/DD/YYYY format)",
		},
		{
			"day first under month first policy", "25/12/2024", false,
			"Cannot parse '25/12/2024' as date. Invalid day or month value (detected DD/MM/YYYY format)",
		},
		{
			"impossible calendar date", "30/02/2024", true,
			"Cannot parse '30/02/2024' as date. Invalid day or month value (detected DD/MM/YYYY format)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Date(tt.input, tt.dayFirst)
			if err == nil {
				t.Fatalf("Date(%v) expected error", tt.input)
			}
			if err.Error() != tt.want {
				t.Errorf("Date(%v) error = %q, want %q", tt.input, err.Error(), tt.want)
			}
		})
	}
}

func TestDateAmbiguousHint(t *testing.T) {
	// An ambiguous date that still fails (bad time suffix) carries the
	// interpretation hint.
	_, err := Date("03/04/2024 99:99", true)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Cannot parse '03/04/2024 99:99' as date") {
		t.Errorf("error missing raw echo: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "interpreted as DD/MM/YYYY") {
		t.Errorf("error missing ambiguity hint: %q", err.Error())
	}
}
