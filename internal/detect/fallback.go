package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dvloznov/spendlens/internal/table"
)

// Content sniffing samples this many non-missing cells per column and
// requires this hit rate before assigning a role.
const (
	sampleSize   = 10
	sniffHitRate = 0.7
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`),
}

// FallbackDetect infers column roles from content when no bank format
// matched. Roles are assigned in a fixed pass order (Date, Amount,
// Description, Category) and no source column takes more than one role.
// The returned map keys are canonical names; a missing key means the role
// could not be assigned.
func FallbackDetect(t *table.Table) map[string]string {
	mapping := make(map[string]string)
	if t == nil {
		return mapping
	}
	assigned := func(col string) bool {
		for _, src := range mapping {
			if src == col {
				return true
			}
		}
		return false
	}

	cols := t.Columns()

	for _, col := range cols {
		if isDateColumn(t.ColumnValues(col)) {
			mapping["Date"] = col
			break
		}
	}

	for _, col := range cols {
		if !assigned(col) && isAmountColumn(t.ColumnValues(col)) {
			mapping["Amount"] = col
			break
		}
	}

	for _, col := range cols {
		if !assigned(col) {
			vals := t.ColumnValues(col)
			if isTextColumn(vals) && !isDateColumn(vals) {
				mapping["Description"] = col
				break
			}
		}
	}

	// Category is optional: only the first remaining text column counts, and
	// only when its header says so.
	for _, col := range cols {
		if !assigned(col) && isTextColumn(t.ColumnValues(col)) {
			if strings.Contains(strings.ToLower(col), "category") {
				mapping["Category"] = col
			}
			break
		}
	}

	return mapping
}

func sample(values []any) []any {
	out := make([]any, 0, sampleSize)
	for _, v := range values {
		if v == nil {
			continue
		}
		out = append(out, v)
		if len(out) == sampleSize {
			break
		}
	}
	return out
}

// isDateColumn reports whether the sampled values look like dates in common
// numeric-separator shapes.
func isDateColumn(values []any) bool {
	s := sample(values)
	if len(s) == 0 {
		return false
	}
	matches := 0
	for _, v := range s {
		str, ok := v.(string)
		if !ok {
			continue
		}
		for _, p := range datePatterns {
			if p.MatchString(str) {
				matches++
				break
			}
		}
	}
	return float64(matches)/float64(len(s)) >= sniffHitRate
}

// isAmountColumn reports whether the column is numeric-typed or whether its
// sampled strings parse as numbers after stripping currency symbols and
// thousands commas.
func isAmountColumn(values []any) bool {
	s := sample(values)
	if len(s) == 0 {
		return false
	}

	numericTyped := true
	for _, v := range s {
		switch v.(type) {
		case float64, float32, int, int32, int64:
		default:
			numericTyped = false
		}
	}
	if numericTyped {
		return true
	}

	parsed := 0
	for _, v := range s {
		str, ok := v.(string)
		if !ok {
			continue
		}
		cleaned := strings.NewReplacer(",", "", "£", "", "$", "", "€", "").Replace(strings.TrimSpace(str))
		if _, err := strconv.ParseFloat(cleaned, 64); err == nil {
			parsed++
		}
	}
	return float64(parsed)/float64(len(s)) >= sniffHitRate
}

// isTextColumn reports whether the sampled values are strings.
func isTextColumn(values []any) bool {
	s := sample(values)
	if len(s) == 0 {
		return false
	}
	for _, v := range s {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}
