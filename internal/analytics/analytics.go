// Package analytics computes aggregate financial metrics over a categorized
// transaction table: income/expense/savings summaries, per-month trend rows
// and extreme-value flags. All money values are rounded to 2 decimal places.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dvloznov/spendlens/internal/clean"
	"github.com/dvloznov/spendlens/internal/table"
)

// FinancialSummary holds the headline metrics for one batch or one month.
// SavingsRate is a percentage and may exceed 100 or go negative.
type FinancialSummary struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	NetSavings    float64 `json:"net_savings"`
	SavingsRate   float64 `json:"savings_rate"`
}

// IncomeExpenses totals income (rows categorized "Income") and expenses
// (negative amounts in any other category), both returned as positive values.
// A table without Amount/Category columns yields zeros.
func IncomeExpenses(t *table.Table) (income, expenses float64) {
	if t.IsEmpty() || !t.HasColumn("Amount") || !t.HasColumn("Category") {
		return 0, 0
	}

	for i := 0; i < t.Len(); i++ {
		v, _ := t.Cell(i, "Amount")
		amount, ok := cellFloat(v)
		if !ok {
			continue
		}
		c, _ := t.Cell(i, "Category")
		if c != nil && fmt.Sprint(c) == "Income" {
			income += amount
		} else if amount < 0 {
			expenses += math.Abs(amount)
		}
	}

	return round2(math.Abs(income)), round2(expenses)
}

// NetSavings is income minus expenses; negative means a deficit.
func NetSavings(income, expenses float64) float64 {
	return round2(income - expenses)
}

// SavingsRate is net savings as a percentage of income. Zero income yields
// exactly 0.0 rather than an error.
func SavingsRate(income, netSavings float64) float64 {
	if income == 0 {
		return 0.0
	}
	return round2(netSavings / income * 100)
}

// Summary composes the full metric set for a categorized table.
func Summary(t *table.Table) FinancialSummary {
	income, expenses := IncomeExpenses(t)
	net := NetSavings(income, expenses)
	return FinancialSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetSavings:    net,
		SavingsRate:   SavingsRate(income, net),
	}
}

// Extreme is one transaction flagged for review.
type Extreme struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	FlagReason  string    `json:"flag_reason"`
}

// DefaultExtremeThreshold is the review threshold in currency units.
const DefaultExtremeThreshold = 1000.0

// FlagExtremes returns every row whose absolute amount strictly exceeds the
// threshold, in table order. An amount equal to the threshold is not flagged.
func FlagExtremes(t *table.Table, threshold float64) []Extreme {
	flagged := []Extreme{}
	if t.IsEmpty() || !t.HasColumn("Amount") {
		return flagged
	}

	for i := 0; i < t.Len(); i++ {
		v, _ := t.Cell(i, "Amount")
		amount, ok := cellFloat(v)
		if !ok || math.Abs(amount) <= threshold {
			continue
		}

		e := Extreme{
			Amount:     amount,
			FlagReason: fmt.Sprintf("Extreme value: £%.2f exceeds threshold", math.Abs(amount)),
		}
		if d, _ := t.Cell(i, "Date"); d != nil {
			if dt, err := clean.Date(d, true); err == nil {
				e.Date = dt
			}
		}
		if desc, _ := t.Cell(i, "Description"); desc != nil {
			e.Description = fmt.Sprint(desc)
		}
		if c, _ := t.Cell(i, "Category"); c != nil {
			e.Category = fmt.Sprint(c)
		}
		flagged = append(flagged, e)
	}

	return flagged
}

// MonthlyTrend is one month's metrics. Month is a zero-padded "YYYY-MM"
// label, so lexicographic order is chronological order.
type MonthlyTrend struct {
	Month string `json:"month"`
	FinancialSummary
}

// MonthlyTrends buckets transactions by calendar month and computes an
// independent Summary per bucket, sorted ascending by month label. Rows whose
// Date cell cannot be coerced to a date are dropped silently; this permissive
// policy serves chart feeds and intentionally differs from the strict
// per-row errors in package validate.
func MonthlyTrends(t *table.Table) []MonthlyTrend {
	trends := []MonthlyTrend{}
	if t.IsEmpty() || !t.HasColumn("Date") {
		return trends
	}

	buckets := make(map[string]*table.Table)
	for i := 0; i < t.Len(); i++ {
		v, _ := t.Cell(i, "Date")
		if v == nil {
			continue
		}
		date, err := clean.Date(v, true)
		if err != nil {
			continue
		}
		month := date.Format("2006-01")
		if buckets[month] == nil {
			buckets[month] = table.New(t.Columns())
		}
		buckets[month].AppendRow(t.Row(i))
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	for _, m := range months {
		trends = append(trends, MonthlyTrend{Month: m, FinancialSummary: Summary(buckets[m])})
	}
	return trends
}

func cellFloat(v any) (float64, bool) {
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

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
