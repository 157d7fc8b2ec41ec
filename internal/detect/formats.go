// Package detect identifies the column layout of an uploaded transaction
// table, either by matching known bank export schemas on headers or by
// content-sniffing column roles, and narrows the result to the canonical
// {Date, Description, Amount, Category} shape.
package detect

// ColumnMapping maps a required lowercase source header to its canonical
// target name.
type ColumnMapping struct {
	Source string
	Target string
}

// BankFormat is one known transaction-export vendor layout. A table matches
// when every Source header is present (case-insensitive); extra columns are
// ignored.
type BankFormat struct {
	ID      string
	Columns []ColumnMapping
}

// Registry holds the known bank formats in evaluation order. Order is part
// of the contract: when a table's headers satisfy more than one format, the
// earlier registration wins.
var Registry = []BankFormat{
	{
		ID: "monzo",
		Columns: []ColumnMapping{
			{Source: "date", Target: "Date"},
			{Source: "name", Target: "Name"},
			{Source: "amount", Target: "Amount"},
			{Source: "category", Target: "Category"},
		},
	},
	{
		ID: "revolut",
		Columns: []ColumnMapping{
			{Source: "started date", Target: "Date"},
			{Source: "description", Target: "Description"},
			{Source: "amount", Target: "Amount"},
			{Source: "category", Target: "Category"},
		},
	},
	{
		ID: "barclays",
		Columns: []ColumnMapping{
			{Source: "date", Target: "Date"},
			{Source: "memo", Target: "Description"},
			{Source: "amount", Target: "Amount"},
		},
	},
}

// CanonicalColumns is the output schema every downstream stage assumes.
// Category is optional; Date and Amount are required.
var CanonicalColumns = []string{"Date", "Description", "Amount", "Category"}
