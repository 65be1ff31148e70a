package models

import (
	"github.com/shopspring/decimal"
)

// MonthlySummary holds the aggregated cash flow for one calendar month.
// Summaries are derived wholesale from the transaction set on every
// aggregation pass and never mutated afterwards.
type MonthlySummary struct {
	Month        string          `json:"month"`
	NetFlow      decimal.Decimal `json:"netFlow"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
}

// MonthFlow is a single month's total for one flow direction.
type MonthFlow struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}
