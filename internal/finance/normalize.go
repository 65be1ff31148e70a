// Package finance holds the pure transaction pipeline: row normalization,
// monthly cash-flow aggregation, and portfolio valuation. Every function is
// a pure function of its inputs; state lives with the caller.
package finance

import (
	"strings"

	"github.com/finboard/finboard/internal/csvparse"
	"github.com/finboard/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// Keyword sets for default categorization, matched case-insensitively
// against the transaction description. Rules are applied in a fixed order
// and the last matching rule wins.
var (
	foodShoppingKeywords = []string{"Groceries", "Shopping", "Dinner"}
	billsKeywords        = []string{"Rent", "Bill", "Subscription"}
)

// Normalize turns a raw transactions table into normalized Transactions.
//
// It fails with a SchemaError (and an empty result) when the required Date
// or Amount columns are absent. Rows whose cells fail to convert are skipped
// and reported as ParseErrors in the second return value; the remaining rows
// still normalize.
func Normalize(tbl *csvparse.Table) ([]models.Transaction, []error, error) {
	var missing []string
	if !tbl.HasColumn("Date") {
		missing = append(missing, "Date")
	}
	if !tbl.HasColumn("Amount") {
		missing = append(missing, "Amount")
	}
	if len(missing) > 0 {
		return nil, nil, &models.SchemaError{Schema: "transactions", Missing: missing}
	}

	var raw []models.Transaction
	var rowErrs []error

	for i, row := range tbl.Rows {
		rowNum := i + 2

		dateStr := tbl.Get(row, "Date")
		date, err := csvparse.ParseDate(dateStr)
		if err != nil {
			rowErrs = append(rowErrs, &models.ParseError{Row: rowNum, Field: "Date", Value: dateStr, Err: err})
			continue
		}

		amountStr := tbl.Get(row, "Amount")
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			rowErrs = append(rowErrs, &models.ParseError{Row: rowNum, Field: "Amount", Value: amountStr, Err: err})
			continue
		}

		raw = append(raw, models.Transaction{
			Date:        date,
			Description: tbl.Get(row, "Description"),
			Amount:      amount,
			Type:        models.TransactionType(tbl.Get(row, "Type")),
			Category:    models.Category(tbl.Get(row, "Category")),
		})
	}

	return NormalizeTransactions(raw), rowErrs, nil
}

// NormalizeTransactions fills in the derived fields of each transaction:
// Type inferred from the amount's sign when absent, Amount forced
// non-negative, Category defaulted from the description, Month recomputed
// from Date. It is idempotent: normalizing its own output changes nothing.
func NormalizeTransactions(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	for i, t := range txs {
		out[i] = normalizeOne(t)
	}
	return out
}

func normalizeOne(t models.Transaction) models.Transaction {
	// Infer the flow direction from the sign before it is discarded.
	if t.Type == "" {
		if t.Amount.Sign() >= 0 {
			t.Type = models.TypeIncome
		} else {
			t.Type = models.TypeExpense
		}
	}

	// Sign is carried by Type alone from here on, whether Type was
	// supplied or inferred.
	t.Amount = t.Amount.Abs()

	if t.Category == "" {
		t.Category = categorize(t)
	}

	t.Month = t.Date.Format(models.MonthKeyLayout)
	return t
}

// categorize applies the default category rules in order; later rules
// override earlier ones.
func categorize(t models.Transaction) models.Category {
	category := models.CategoryOther
	if t.Type == models.TypeIncome {
		category = models.CategoryIncome
	}
	if containsAny(t.Description, foodShoppingKeywords) {
		category = models.CategoryFoodShopping
	}
	if containsAny(t.Description, billsKeywords) {
		category = models.CategoryBills
	}
	return category
}

func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
