package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NetWorthSample is one point on the net worth curve. Samples are kept
// ordered by date and carry no computed fields.
type NetWorthSample struct {
	Date     time.Time       `json:"date"`
	NetWorth decimal.Decimal `json:"netWorth"`
}
