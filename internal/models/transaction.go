package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType marks a transaction as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "Income"
	TypeExpense TransactionType = "Expense"
)

// Category represents spending categories for transactions.
type Category string

const (
	CategoryOther        Category = "Other"
	CategoryIncome       Category = "Income"
	CategoryFoodShopping Category = "Food & Shopping"
	CategoryBills        Category = "Bills & Utilities"
)

// MonthKeyLayout is the layout for year-month grouping keys ("2023-01").
// Keys in this form sort chronologically as plain strings.
const MonthKeyLayout = "2006-01"

// Transaction represents a single normalized financial transaction.
// Amount is always non-negative; the direction of the flow is carried
// by Type alone.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Month       string          `json:"month"`
}

// SignedAmount returns the amount with its flow direction applied:
// positive for income, negative for expenses.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
