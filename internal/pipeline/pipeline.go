// Package pipeline orchestrates one upload's journey from raw bytes to a
// categorized transaction table: decode, parse, format detection, validation,
// categorization. Each step is a pure transformation over the shared state;
// a step either completes or fails atomically with a user-facing message, and
// no step suppresses a failure from an earlier one.
package pipeline

import (
	"context"

	"github.com/dvloznov/spendlens/internal/table"
	"github.com/dvloznov/spendlens/internal/validate"
)

// Step represents a single step in the analysis pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	Filename string
	Content  []byte

	// Decoded text plus the encoding that produced it.
	Text     string
	Encoding string

	Raw         *table.Table
	Normalized  *table.Table
	Format      string
	Cleaned     *table.Table
	Report      *validate.Report
	Categorized *table.Table
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure. Step
// errors are returned as-is: their messages are the user-facing contract.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return err
		}
	}
	return nil
}

// NewAnalysisPipeline creates the standard 5-step pipeline for analyzing an
// uploaded transaction CSV.
func NewAnalysisPipeline() *Pipeline {
	return NewPipeline(
		&DecodeStep{},
		&ParseStep{},
		&DetectStep{},
		&ValidateStep{},
		&CategorizeStep{},
	)
}
