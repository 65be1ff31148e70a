package finance

import (
	"github.com/finboard/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// LookupFunc resolves a symbol to its current unit price. The second return
// reports whether a price was known; the Valuator treats a miss as price 0.
// In deployment this is backed by a market-data client, in tests and the CLI
// by a fixed table.
type LookupFunc func(symbol string) (decimal.Decimal, bool)

// ValuePortfolio resolves a unit price for each holding and recomputes its
// value as quantity times price. Holdings whose symbol has no known price
// are valued at 0 and reported through the returned warnings rather than
// failing the valuation.
func ValuePortfolio(holdings []models.Holding, lookup LookupFunc) ([]models.Holding, []*models.UnknownSymbolWarning) {
	out := make([]models.Holding, len(holdings))
	var warnings []*models.UnknownSymbolWarning

	for i, h := range holdings {
		price, ok := lookup(h.Symbol)
		if !ok {
			price = decimal.Zero
			warnings = append(warnings, &models.UnknownSymbolWarning{Symbol: h.Symbol})
		}
		h.UnitPrice = price
		h.Value = h.Quantity.Mul(price)
		out[i] = h
	}

	return out, warnings
}

// TotalValue sums the value of all holdings. The total is derived on demand
// and never stored on the holdings themselves.
func TotalValue(holdings []models.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Value)
	}
	return total
}
