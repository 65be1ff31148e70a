package models

import (
	"github.com/shopspring/decimal"
)

// Holding represents one position in the investment portfolio.
// UnitPrice and Value are derived: Value = Quantity * UnitPrice, recomputed
// on every valuation pass rather than cached.
type Holding struct {
	ID        string          `json:"id"` // RowKey
	Symbol    string          `json:"symbol"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Value     decimal.Decimal `json:"value"`
}
