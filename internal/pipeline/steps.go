package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/dvloznov/spendlens/internal/categorize"
	"github.com/dvloznov/spendlens/internal/detect"
	"github.com/dvloznov/spendlens/internal/table"
	"github.com/dvloznov/spendlens/internal/validate"
)

// User-facing failure messages. The orchestrating caller surfaces these
// verbatim, so the wording is part of the contract.
var (
	errEmptyFile     = errors.New("File is empty. Please upload a valid CSV.")
	errNotRecognized = errors.New("File format not recognized. Please upload a CSV file.")
	errNoValidRows   = errors.New("No valid transactions found after validation. Please check your CSV data.")
)

// DecodeStep turns raw bytes into text, trying a fixed ordered sequence of
// encodings: UTF-8, then Windows-1252, then ISO-8859-1. A candidate is
// accepted only when the whole file decodes without a replacement character.
type DecodeStep struct{}

func (s *DecodeStep) Execute(ctx context.Context, state *State) error {
	if len(state.Content) == 0 {
		return errEmptyFile
	}

	if utf8.Valid(state.Content) {
		state.Text = string(state.Content)
		state.Encoding = "utf-8"
		return nil
	}

	if out, err := charmap.Windows1252.NewDecoder().Bytes(state.Content); err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
		state.Text = string(out)
		state.Encoding = "windows-1252"
		return nil
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(state.Content)
	if err != nil {
		return errNotRecognized
	}
	state.Text = string(out)
	state.Encoding = "iso-8859-1"
	return nil
}

// ParseStep reads the decoded text as delimited records. Ragged rows are
// tolerated: short rows pad with missing cells against the header.
type ParseStep struct{}

func (s *ParseStep) Execute(ctx context.Context, state *State) error {
	r := csv.NewReader(strings.NewReader(state.Text))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return errNotRecognized
	}
	if len(records) == 0 {
		return errEmptyFile
	}

	state.Raw = table.FromRecords(records[0], records[1:])
	return nil
}

// DetectStep identifies the bank format (or content-sniffs one) and narrows
// the table to the canonical columns.
type DetectStep struct{}

func (s *DetectStep) Execute(ctx context.Context, state *State) error {
	normalized, format, err := detect.DetectAndNormalize(state.Raw)
	if err != nil {
		return err
	}
	state.Normalized = normalized
	state.Format = format
	return nil
}

// ValidateStep cleans every row and fails the batch only when nothing
// survived validation.
type ValidateStep struct{}

func (s *ValidateStep) Execute(ctx context.Context, state *State) error {
	cleaned, report := validate.Validate(state.Normalized)
	state.Cleaned = cleaned
	state.Report = report
	if report.ValidRows == 0 {
		return errNoValidRows
	}
	return nil
}

// CategorizeStep fills the Category column on the cleaned table.
type CategorizeStep struct{}

func (s *CategorizeStep) Execute(ctx context.Context, state *State) error {
	categorized, err := categorize.Transactions(state.Cleaned)
	if err != nil {
		return err
	}
	state.Categorized = categorized
	return nil
}
