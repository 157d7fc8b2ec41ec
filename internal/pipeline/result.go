package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dvloznov/spendlens/internal/table"
	"github.com/dvloznov/spendlens/internal/validate"
)

// FileInfo describes the accepted upload.
type FileInfo struct {
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Rows     int    `json:"rows"`
	Encoding string `json:"encoding"`
}

// Result is the pipeline output handed to the presentation layer. On failure
// only Success and Error are meaningful; on success Table holds the cleaned,
// categorized transactions.
type Result struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Format  string           `json:"format,omitempty"`
	Report  *validate.Report `json:"report,omitempty"`
	File    FileInfo         `json:"file"`
	Table   *table.Table     `json:"-"`
}

// FormatDisplay maps the format label to its display name: bank ids are
// title-cased, the sniffing fallback shows as "Auto-detected", anything else
// as "Standard".
func (r *Result) FormatDisplay() string {
	switch r.Format {
	case "":
		return "Unknown"
	case "auto-detected":
		return "Auto-detected"
	case "monzo", "revolut", "barclays":
		return strings.ToUpper(r.Format[:1]) + r.Format[1:]
	default:
		return "Standard"
	}
}

// Process runs the full analysis pipeline over one uploaded file. It never
// returns an error: failures are mapped into the result's Error string.
func Process(ctx context.Context, content []byte, filename string) *Result {
	result := &Result{
		File: FileInfo{Name: filename, Size: len(content)},
	}

	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		result.Error = errNotRecognized.Error()
		return result
	}

	state := &State{Filename: filename, Content: content}
	if err := NewAnalysisPipeline().Execute(ctx, state); err != nil {
		result.File.Encoding = state.Encoding
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Format = state.Format
	result.Report = state.Report
	result.Table = state.Categorized
	result.File.Encoding = state.Encoding
	result.File.Rows = state.Normalized.Len()
	return result
}
