// Package clean converts raw transaction cells into typed values.
// Amounts arrive as currency-formatted strings ("£1,234.56", "(45.30)") and
// dates in whatever layout the exporting bank preferred; both cleaners return
// user-facing reasons on failure so the validator can report them verbatim.
package clean

// Error is a cell-level cleaning failure. Reason is the exact text shown to
// the user in the validation report.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}
