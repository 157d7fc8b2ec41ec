package categorize

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dvloznov/spendlens/internal/table"
)

// Categorize assigns a category to a single transaction. Priority order:
// an existing non-blank category (returned trimmed), income keywords in the
// description, the ordered rule table, positive amount as income, then
// "Uncategorized". amount is nil when unknown.
func Categorize(description string, existing any, amount *float64) string {
	if s, ok := existingCategory(existing); ok {
		return s
	}

	desc := strings.ToLower(description)

	if desc != "" {
		for _, kw := range IncomeKeywords {
			if strings.Contains(desc, kw) {
				return "Income"
			}
		}
	}

	for _, rule := range Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Category
			}
		}
	}

	if amount != nil && *amount > 0 {
		return "Income"
	}

	return "Uncategorized"
}

// existingCategory reports whether a pre-existing category cell is usable.
// Cells may be any scalar from the upload; NaN floats count as missing.
func existingCategory(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return "", false
	}
	return s, true
}

// Transactions categorizes every row, returning a new table with the
// Category column filled. The input is never mutated. Description and Amount
// columns are required; Category is added when absent.
func Transactions(t *table.Table) (*table.Table, error) {
	if t.IsEmpty() {
		return t, nil
	}
	if !t.HasColumn("Description") {
		return nil, fmt.Errorf("categorize: missing required column %q", "Description")
	}
	if !t.HasColumn("Amount") {
		return nil, fmt.Errorf("categorize: missing required column %q", "Amount")
	}

	out := t.Clone()
	if !out.HasColumn("Category") {
		out = withColumn(out, "Category")
	}

	for i := 0; i < out.Len(); i++ {
		desc := ""
		if v, _ := out.Cell(i, "Description"); v != nil {
			desc = fmt.Sprint(v)
		}
		existing, _ := out.Cell(i, "Category")
		var amount *float64
		if v, _ := out.Cell(i, "Amount"); v != nil {
			if f, ok := toFloat(v); ok {
				amount = &f
			}
		}
		out.SetCell(i, "Category", Categorize(desc, existing, amount))
	}

	return out, nil
}

// CategoryTotal is one entry of the expense summary.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Summary totals absolute spend per category over expense rows only
// (Amount < 0), sorted descending by total. Ties keep the order categories
// were first encountered in the table.
func Summary(t *table.Table) []CategoryTotal {
	totals := []CategoryTotal{}
	if t.IsEmpty() || !t.HasColumn("Category") || !t.HasColumn("Amount") {
		return totals
	}

	index := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		v, _ := t.Cell(i, "Amount")
		f, ok := toFloat(v)
		if !ok || f >= 0 {
			continue
		}
		c, _ := t.Cell(i, "Category")
		if c == nil {
			continue
		}
		cat := fmt.Sprint(c)
		if pos, seen := index[cat]; seen {
			totals[pos].Total += math.Abs(f)
		} else {
			index[cat] = len(totals)
			totals = append(totals, CategoryTotal{Category: cat, Total: math.Abs(f)})
		}
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	return totals
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// withColumn appends an empty column to a table.
func withColumn(t *table.Table, name string) *table.Table {
	out := table.New(append(t.Columns(), name))
	for i := 0; i < t.Len(); i++ {
		out.AppendRow(append(append([]any{}, t.Row(i)...), nil))
	}
	return out
}
