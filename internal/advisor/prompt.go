package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/spendlens/internal/analytics"
	"github.com/dvloznov/spendlens/internal/categorize"
)

// CategoryShare is one top-spending category in the summary payload.
type CategoryShare struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// SummaryPayload is the structured form of the data the prompt is built
// from, exposed so the presentation layer can render the same numbers the
// coach saw.
type SummaryPayload struct {
	Income          float64         `json:"income"`
	Expenses        float64         `json:"expenses"`
	NetSavings      float64         `json:"net_savings"`
	SavingsRate     float64         `json:"savings_rate"`
	SavingsGoal     *float64        `json:"savings_goal,omitempty"`
	GoalGap         *float64        `json:"goal_gap,omitempty"`
	TopCategories   []CategoryShare `json:"top_categories"`
	TotalCategories int             `json:"total_categories"`
}

const topCategoryCount = 5

// BuildSummaryPayload assembles the metric snapshot fed into the coaching
// prompt. categories must already be sorted descending by spend, as
// categorize.Summary returns them.
func BuildSummaryPayload(summary analytics.FinancialSummary, categories []categorize.CategoryTotal, goal *float64) SummaryPayload {
	payload := SummaryPayload{
		Income:          round2(summary.TotalIncome),
		Expenses:        round2(summary.TotalExpenses),
		NetSavings:      round2(summary.NetSavings),
		SavingsRate:     round1(summary.SavingsRate),
		TopCategories:   []CategoryShare{},
		TotalCategories: len(categories),
	}

	if goal != nil {
		g := round2(*goal)
		gap := round2(*goal - summary.NetSavings)
		payload.SavingsGoal = &g
		payload.GoalGap = &gap
	}

	for i, ct := range categories {
		if i == topCategoryCount {
			break
		}
		pct := 0.0
		if summary.TotalExpenses > 0 {
			pct = round1(ct.Total / summary.TotalExpenses * 100)
		}
		payload.TopCategories = append(payload.TopCategories, CategoryShare{
			Category:   ct.Category,
			Amount:     round2(ct.Total),
			Percentage: pct,
		})
	}

	return payload
}

// BuildCoachingPrompt constructs the opaque prompt string for the advice
// collaborator: user profile, spending breakdown, and the three-section task.
// goal and tone are optional; an empty tone keeps the default register.
func BuildCoachingPrompt(summary analytics.FinancialSummary, categories []categorize.CategoryTotal, goal *float64, tone string) string {
	var goalSection string
	if goal != nil {
		gap := *goal - summary.NetSavings
		var gapStatus string
		switch {
		case gap > 0:
			gapStatus = fmt.Sprintf("£%s short (%.0f%% short)", money(gap), math.Abs(gap / *goal * 100))
		case gap < 0:
			gapStatus = fmt.Sprintf("£%s ahead (%.0f%% ahead)", money(math.Abs(gap)), math.Abs(gap / *goal * 100))
		default:
			gapStatus = "On target"
		}
		goalSection = fmt.Sprintf("- Savings Goal: £%s/month\n- Gap to Goal: %s", money(*goal), gapStatus)
	} else {
		goalSection = "- No specific savings goal set\n- Recommendation: Consider setting a monthly savings target"
	}

	var b strings.Builder
	b.WriteString("You are a personal finance AI coach helping users improve their financial health.\n\n")
	b.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&b, "- Monthly Income: £%s\n", money(summary.TotalIncome))
	fmt.Fprintf(&b, "- Monthly Expenses: £%s\n", money(summary.TotalExpenses))
	fmt.Fprintf(&b, "- Net Savings: £%s\n", money(summary.NetSavings))
	fmt.Fprintf(&b, "- Current Savings Rate: %.1f%%\n", summary.SavingsRate)
	b.WriteString(goalSection)
	b.WriteString("\n\nSPENDING BREAKDOWN:\n")
	b.WriteString(categoryBreakdown(categories, summary.TotalExpenses))
	b.WriteString("\n\nYOUR TASK:\n")
	b.WriteString("Analyze this financial data and provide:\n\n")
	b.WriteString("1. RECOMMENDATIONS (3-5 specific, actionable items):\n")
	b.WriteString("   - Each recommendation should include a concrete savings amount\n")
	b.WriteString("   - Be specific about which spending category to target\n")
	b.WriteString("   - Provide practical steps the user can take immediately\n\n")
	b.WriteString("2. MONEY HABIT (1 simple habit):\n")
	b.WriteString("   - Suggest one easy-to-adopt daily or weekly habit\n")
	b.WriteString("   - Make it specific and actionable\n\n")
	b.WriteString("3. SPENDING LEAKS (explain the biggest issues):\n")
	b.WriteString("   - Identify the 1-2 categories where the user is overspending most\n")
	b.WriteString("   - Explain why these are problematic\n")
	b.WriteString("   - Provide context based on typical budgeting guidelines\n\n")
	b.WriteString("Format your response clearly with these three sections labeled.")

	if tone != "" {
		fmt.Fprintf(&b, "\n\nTONE:\nRespond in a %s tone.", tone)
	}

	return b.String()
}

func categoryBreakdown(categories []categorize.CategoryTotal, totalExpenses float64) string {
	if len(categories) == 0 {
		return "No category data available."
	}

	lines := []string{"Top Spending Categories:"}
	for i, ct := range categories {
		if i == topCategoryCount {
			break
		}
		pct := 0.0
		if totalExpenses > 0 {
			pct = ct.Total / totalExpenses * 100
		}
		lines = append(lines, fmt.Sprintf("%d. %s: £%s (%.1f%% of expenses)", i+1, ct.Category, money(ct.Total), pct))
	}
	lines = append(lines, fmt.Sprintf("\nTotal categories tracked: %d", len(categories)))

	return strings.Join(lines, "\n")
}

// money formats an amount with thousands separators and two decimals.
func money(v float64) string {
	s := fmt.Sprintf("%.2f", math.Abs(v))
	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]

	var grouped strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + grouped.String() + frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
