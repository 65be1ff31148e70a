package csvparse

import (
	"errors"
	"testing"

	"github.com/finboard/finboard/internal/models"
	"github.com/shopspring/decimal"
)

func TestParse_Valid(t *testing.T) {
	content := `Date,Description,Amount
2023-01-05,Paycheck,5000.00
2023-01-10,Groceries,-250.00`

	tbl, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(tbl.Headers) != 3 {
		t.Fatalf("Expected 3 headers, got %d", len(tbl.Headers))
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(tbl.Rows))
	}
	if tbl.Rows[0]["Description"] != "Paycheck" {
		t.Errorf("Expected Description 'Paycheck', got %q", tbl.Rows[0]["Description"])
	}
}

func TestParse_Whitespace(t *testing.T) {
	content := ` Date , Description , Amount
 2023-01-05 , Paycheck , 5000.00 `

	tbl, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if !tbl.HasColumn("Description") {
		t.Errorf("Expected trimmed header 'Description', got %v", tbl.Headers)
	}
	if tbl.Rows[0]["Amount"] != "5000.00" {
		t.Errorf("Expected trimmed cell '5000.00', got %q", tbl.Rows[0]["Amount"])
	}
}

func TestParse_Empty(t *testing.T) {
	tbl, err := Parse("")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(tbl.Rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(tbl.Rows))
	}
}

func TestTable_ColumnCaseInsensitive(t *testing.T) {
	tbl, err := Parse("DATE,amount\n2023-01-05,10")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !tbl.HasColumn("Date") || !tbl.HasColumn("Amount") {
		t.Errorf("Expected case-insensitive column resolution, headers: %v", tbl.Headers)
	}
	if got := tbl.Get(tbl.Rows[0], "Amount"); got != "10" {
		t.Errorf("Expected Get to resolve 'Amount' to '10', got %q", got)
	}
}

func TestParseNetWorth_NamedColumns(t *testing.T) {
	content := `Date,Net Worth
2023-02-01,15500
2023-01-01,15000`

	samples, rowErrs, err := ParseNetWorth(content)
	if err != nil {
		t.Fatalf("ParseNetWorth returned error: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("Expected no row errors, got: %v", rowErrs)
	}
	if len(samples) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(samples))
	}

	// Samples come back ordered by date regardless of input order.
	if !samples[0].Date.Before(samples[1].Date) {
		t.Errorf("Expected samples sorted by date, got %v then %v", samples[0].Date, samples[1].Date)
	}
	if !samples[0].NetWorth.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("Expected first sample 15000, got %s", samples[0].NetWorth)
	}
}

func TestParseNetWorth_PositionalFallback(t *testing.T) {
	content := `When,Balance
2023-01-01,15000
2023-06-01,17000`

	samples, rowErrs, err := ParseNetWorth(content)
	if err != nil {
		t.Fatalf("ParseNetWorth returned error: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("Expected no row errors, got: %v", rowErrs)
	}
	if len(samples) != 2 {
		t.Fatalf("Expected 2 samples via positional fallback, got %d", len(samples))
	}
	if !samples[1].NetWorth.Equal(decimal.NewFromInt(17000)) {
		t.Errorf("Expected second sample 17000, got %s", samples[1].NetWorth)
	}
}

func TestParseNetWorth_BadDate(t *testing.T) {
	content := `Date,Net Worth
not-a-date,15000
2023-06-01,17000`

	samples, rowErrs, err := ParseNetWorth(content)
	if err != nil {
		t.Fatalf("ParseNetWorth returned error: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("Expected 1 surviving sample, got %d", len(samples))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("Expected 1 row error, got %d", len(rowErrs))
	}

	var parseErr *models.ParseError
	if !errors.As(rowErrs[0], &parseErr) {
		t.Fatalf("Expected ParseError, got %T", rowErrs[0])
	}
	if parseErr.Row != 2 || parseErr.Field != "Date" {
		t.Errorf("Expected row 2 Date error, got row %d field %q", parseErr.Row, parseErr.Field)
	}
}

func TestParsePortfolio_Conventions(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"investment/shares", "Investment,Shares\nAAPL,10"},
		{"asset/quantity", "Asset,Quantity\nAAPL,10"},
		{"symbol/quantity", "Symbol,Quantity\nAAPL,10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			holdings, rowErrs, err := ParsePortfolio(tc.content)
			if err != nil {
				t.Fatalf("ParsePortfolio returned error: %v", err)
			}
			if len(rowErrs) != 0 {
				t.Fatalf("Expected no row errors, got: %v", rowErrs)
			}
			if len(holdings) != 1 {
				t.Fatalf("Expected 1 holding, got %d", len(holdings))
			}
			if holdings[0].Symbol != "AAPL" {
				t.Errorf("Expected symbol AAPL, got %q", holdings[0].Symbol)
			}
			if !holdings[0].Quantity.Equal(decimal.NewFromInt(10)) {
				t.Errorf("Expected quantity 10, got %s", holdings[0].Quantity)
			}
		})
	}
}

func TestParsePortfolio_SchemaError(t *testing.T) {
	holdings, _, err := ParsePortfolio("Ticker,Count\nAAPL,10")
	if err == nil {
		t.Fatal("Expected SchemaError for unknown column names")
	}

	var schemaErr *models.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %T: %v", err, err)
	}
	if len(holdings) != 0 {
		t.Errorf("Expected no holdings on schema failure, got %d", len(holdings))
	}
}

func TestParsePortfolio_BadQuantity(t *testing.T) {
	holdings, rowErrs, err := ParsePortfolio("Symbol,Quantity\nAAPL,ten\nMSFT,5")
	if err != nil {
		t.Fatalf("ParsePortfolio returned error: %v", err)
	}
	if len(holdings) != 1 {
		t.Errorf("Expected 1 surviving holding, got %d", len(holdings))
	}
	if len(rowErrs) != 1 {
		t.Errorf("Expected 1 row error, got %d", len(rowErrs))
	}
}

func TestParseDate_Layouts(t *testing.T) {
	inputs := []string{"2023-01-05", "2023/01/05", "01/05/2023", "Jan 5, 2023", "5 Jan 2023"}
	for _, in := range inputs {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q) returned error: %v", in, err)
			continue
		}
		if got.Year() != 2023 || got.Month() != 1 || got.Day() != 5 {
			t.Errorf("ParseDate(%q) = %v, expected 2023-01-05", in, got)
		}
	}

	if _, err := ParseDate("yesterday"); err == nil {
		t.Error("Expected error for unparseable date")
	}
}
