// Package pricing is the market-data boundary for portfolio valuation.
// The Valuator is written against an abstract symbol-to-price lookup, so a
// deployment can swap the fixed table for a real quote API without touching
// valuation logic.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Source resolves symbols to unit prices. Implementations report a miss
// through the boolean rather than an error: a missing price degrades the
// valuation, it does not fail it.
type Source interface {
	Price(symbol string) (decimal.Decimal, bool)
}

// Static is a fixed in-memory price table.
type Static struct {
	prices map[string]decimal.Decimal
}

// NewStatic builds a static source from symbol -> price strings. Entries
// that fail to parse are dropped.
func NewStatic(prices map[string]string) *Static {
	s := &Static{prices: make(map[string]decimal.Decimal, len(prices))}
	for sym, p := range prices {
		if d, err := decimal.NewFromString(p); err == nil {
			s.prices[sym] = d
		}
	}
	return s
}

// DefaultStatic returns the built-in demo price table.
func DefaultStatic() *Static {
	return NewStatic(map[string]string{
		"AAPL":  "175.50",
		"MSFT":  "325.75",
		"GOOGL": "130.20",
	})
}

// Price implements Source.
func (s *Static) Price(symbol string) (decimal.Decimal, bool) {
	p, ok := s.prices[symbol]
	return p, ok
}

// Fallback chains two sources: Primary first, then Secondary when the
// primary has no price for the symbol.
type Fallback struct {
	Primary   Source
	Secondary Source
}

// Price implements Source.
func (f *Fallback) Price(symbol string) (decimal.Decimal, bool) {
	if p, ok := f.Primary.Price(symbol); ok {
		return p, true
	}
	return f.Secondary.Price(symbol)
}
