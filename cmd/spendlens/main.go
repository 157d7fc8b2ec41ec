package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dvloznov/spendlens/internal/advisor"
	"github.com/dvloznov/spendlens/internal/analytics"
	"github.com/dvloznov/spendlens/internal/categorize"
	"github.com/dvloznov/spendlens/internal/export"
	"github.com/dvloznov/spendlens/internal/logger"
	"github.com/dvloznov/spendlens/internal/session"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "advise":
		runAdvise(log)
	case "export":
		runExport(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("SpendLens CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  spendlens <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Analyze a transaction CSV and print the financial summary")
	fmt.Println("  advise    Analyze a CSV and generate AI coaching advice")
	fmt.Println("  export    Analyze a CSV and write the cleaned transactions back out")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'spendlens <command> -h' for more information on a command.")
}

// loadCSV runs the analysis pipeline over a local file and exits on failure.
func loadCSV(ctx context.Context, log zerolog.Logger, path string) *session.Session {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to read file")
	}

	sess := session.New()
	result := sess.Load(ctx, content, filepath.Base(path))
	if !result.Success {
		fmt.Fprintln(os.Stderr, result.Error)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d transaction(s) from %s (%s, %s)\n",
		result.Report.ValidRows, result.File.Name, result.FormatDisplay(), result.File.Encoding)
	for _, warning := range result.Report.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}

	return sess
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	file := fs.String("file", "", "Path to the transaction CSV")
	threshold := fs.Float64("threshold", analytics.DefaultExtremeThreshold, "Extreme transaction threshold")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	ctx := logger.WithContext(context.Background(), log)
	sess := loadCSV(ctx, log, *file)
	t := sess.Table()

	summary := analytics.Summary(t)
	fmt.Println("\n=== Financial Summary ===")
	fmt.Printf("Income:       £%.2f\n", summary.TotalIncome)
	fmt.Printf("Expenses:     £%.2f\n", summary.TotalExpenses)
	fmt.Printf("Net Savings:  £%.2f\n", summary.NetSavings)
	fmt.Printf("Savings Rate: %.1f%%\n", summary.SavingsRate)

	totals := categorize.Summary(t)
	if len(totals) > 0 {
		fmt.Println("\n=== Spending by Category ===")
		for _, ct := range totals {
			fmt.Printf("%-15s £%.2f\n", ct.Category, ct.Total)
		}
	}

	trends := analytics.MonthlyTrends(t)
	if len(trends) > 1 {
		fmt.Println("\n=== Monthly Trends ===")
		for _, tr := range trends {
			fmt.Printf("%s  income £%.2f  expenses £%.2f  net £%.2f\n",
				tr.Month, tr.TotalIncome, tr.TotalExpenses, tr.NetSavings)
		}
	}

	extremes := analytics.FlagExtremes(t, *threshold)
	if len(extremes) > 0 {
		fmt.Println("\n=== Flagged Transactions ===")
		for _, ex := range extremes {
			fmt.Printf("%s  %s  £%.2f  (%s)\n", ex.Date.Format("2006-01-02"), ex.Description, ex.Amount, ex.FlagReason)
		}
	}
}

func runAdvise(log zerolog.Logger) {
	fs := flag.NewFlagSet("advise", flag.ExitOnError)
	file := fs.String("file", "", "Path to the transaction CSV")
	goal := fs.Float64("goal", 0, "Monthly savings goal (0 = none)")
	tone := fs.String("tone", "", "Coaching tone (e.g. encouraging, direct)")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	sess := loadCSV(ctx, log, *file)
	t := sess.Table()

	summary := analytics.Summary(t)
	totals := categorize.Summary(t)

	var goalPtr *float64
	if *goal > 0 {
		goalPtr = goal
	}

	prompt := advisor.BuildCoachingPrompt(summary, totals, goalPtr, *tone)

	coach := advisor.NewGeminiClient()
	text, err := coach.Generate(ctx, prompt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Println("\n=== AI Coach ===")
	fmt.Println(text)
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	file := fs.String("file", "", "Path to the transaction CSV")
	out := fs.String("out", "", "Output path (defaults to stdout)")
	format := fs.String("format", "csv", "Output format: csv or json")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	ctx := logger.WithContext(context.Background(), log)
	sess := loadCSV(ctx, log, *file)
	t := sess.Table()

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal().Err(err).Str("file", *out).Msg("Failed to create output file")
		}
		defer f.Close()
		w = f
	}

	var err error
	switch *format {
	case "csv":
		err = export.WriteCSV(w, t)
	case "json":
		err = export.WriteJSON(w, t)
	default:
		log.Fatal().Str("format", *format).Msg("Unknown export format")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	if *out != "" {
		fmt.Printf("Wrote %d transaction(s) to %s\n", t.Len(), *out)
	}
}
