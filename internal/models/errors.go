package models

import (
	"fmt"
	"strings"
)

// SchemaError reports that an input table is missing required columns.
// It is fatal for the table as a whole: no partial result accompanies it.
type SchemaError struct {
	Schema  string   // which input schema failed ("transactions", "portfolio", ...)
	Missing []string // required columns that could not be resolved
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required column(s): %s", e.Schema, strings.Join(e.Missing, ", "))
}

// ParseError reports that a single cell could not be converted to its
// expected type. It is row-scoped: other rows are unaffected.
type ParseError struct {
	Row   int    // 1-based row number including the header row
	Field string // column name
	Value string // offending cell content
	Err   error  // underlying conversion error, may be nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("row %d: invalid %s %q", e.Row, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownSymbolWarning signals that a holding's symbol had no known price.
// Valuation degrades to a zero price instead of failing; the warning lets
// callers surface the gap rather than silently understating the portfolio.
type UnknownSymbolWarning struct {
	Symbol string
}

func (w *UnknownSymbolWarning) Error() string {
	return fmt.Sprintf("no price available for symbol %q, valued at 0", w.Symbol)
}
