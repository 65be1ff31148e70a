package csvparse

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/finboard/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// Record is one data row keyed by (trimmed) header name.
type Record map[string]string

// Table is a parsed delimited file: the header row plus all data rows.
type Table struct {
	Headers []string
	Rows    []Record
}

// HasColumn reports whether the table has a column with the given name,
// compared case-insensitively.
func (t *Table) HasColumn(name string) bool {
	return t.Column(name) != ""
}

// Column returns the actual header matching name case-insensitively,
// or "" if the table has no such column.
func (t *Table) Column(name string) string {
	for _, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return h
		}
	}
	return ""
}

// Get returns the value of the named column for the record, resolving the
// column case-insensitively against the table's headers.
func (t *Table) Get(r Record, name string) string {
	return r[t.Column(name)]
}

// Parse reads a delimited text file into a Table. Header names and cell
// values are whitespace-trimmed. An empty or header-only input yields a
// table with no rows.
func Parse(content string) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	tbl := &Table{Headers: headers}
	for _, record := range records[1:] {
		row := make(Record, len(headers))
		for j, header := range headers {
			if j < len(record) {
				row[header] = strings.TrimSpace(record[j])
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	return tbl, nil
}

// ParseNetWorth parses a net worth CSV with columns "Date" and "Net Worth".
// When the header names don't match, the first two columns are used
// positionally. Row-level conversion failures are collected as ParseErrors;
// a structurally unusable table is a SchemaError.
func ParseNetWorth(content string) ([]models.NetWorthSample, []error, error) {
	tbl, err := Parse(content)
	if err != nil {
		return nil, nil, err
	}
	if len(tbl.Headers) == 0 {
		return nil, nil, nil
	}

	dateCol := tbl.Column("Date")
	worthCol := tbl.Column("Net Worth")
	if dateCol == "" || worthCol == "" {
		// Positional fallback: first column is the date, second the value.
		if len(tbl.Headers) < 2 {
			return nil, nil, &models.SchemaError{Schema: "net worth", Missing: []string{"Date", "Net Worth"}}
		}
		dateCol = tbl.Headers[0]
		worthCol = tbl.Headers[1]
	}

	var samples []models.NetWorthSample
	var rowErrs []error

	for i, row := range tbl.Rows {
		rowNum := i + 2

		date, err := ParseDate(row[dateCol])
		if err != nil {
			rowErrs = append(rowErrs, &models.ParseError{Row: rowNum, Field: "Date", Value: row[dateCol], Err: err})
			continue
		}

		worth, err := decimal.NewFromString(row[worthCol])
		if err != nil {
			rowErrs = append(rowErrs, &models.ParseError{Row: rowNum, Field: "Net Worth", Value: row[worthCol], Err: err})
			continue
		}

		samples = append(samples, models.NetWorthSample{Date: date, NetWorth: worth})
	}

	sortSamples(samples)
	return samples, rowErrs, nil
}

// Accepted portfolio column namings, in resolution order.
var (
	symbolColumns   = []string{"Investment", "Asset", "Symbol"}
	quantityColumns = []string{"Shares", "Quantity"}
)

// ParsePortfolio parses a portfolio CSV. The symbol column may be named
// Investment, Asset, or Symbol; the quantity column Shares or Quantity.
// If neither naming convention is satisfiable the whole table fails with
// a SchemaError.
func ParsePortfolio(content string) ([]models.Holding, []error, error) {
	tbl, err := Parse(content)
	if err != nil {
		return nil, nil, err
	}
	if len(tbl.Headers) == 0 {
		return nil, nil, nil
	}

	symCol := firstColumn(tbl, symbolColumns)
	qtyCol := firstColumn(tbl, quantityColumns)

	var missing []string
	if symCol == "" {
		missing = append(missing, "Investment/Asset/Symbol")
	}
	if qtyCol == "" {
		missing = append(missing, "Shares/Quantity")
	}
	if len(missing) > 0 {
		return nil, nil, &models.SchemaError{Schema: "portfolio", Missing: missing}
	}

	var holdings []models.Holding
	var rowErrs []error

	for i, row := range tbl.Rows {
		rowNum := i + 2

		symbol := row[symCol]
		if symbol == "" {
			rowErrs = append(rowErrs, &models.ParseError{Row: rowNum, Field: symCol, Value: ""})
			continue
		}

		qty, err := decimal.NewFromString(row[qtyCol])
		if err != nil {
			rowErrs = append(rowErrs, &models.ParseError{Row: rowNum, Field: qtyCol, Value: row[qtyCol], Err: err})
			continue
		}

		holdings = append(holdings, models.Holding{Symbol: symbol, Quantity: qty})
	}

	return holdings, rowErrs, nil
}

func firstColumn(tbl *Table, candidates []string) string {
	for _, name := range candidates {
		if col := tbl.Column(name); col != "" {
			return col
		}
	}
	return ""
}

func sortSamples(samples []models.NetWorthSample) {
	// Insertion sort: inputs are small and usually already in date order.
	for i := 1; i < len(samples); i++ {
		for j := i; j > 0 && samples[j].Date.Before(samples[j-1].Date); j-- {
			samples[j], samples[j-1] = samples[j-1], samples[j]
		}
	}
}
