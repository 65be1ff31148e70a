// Package report renders aggregated financial data into human-readable
// artifacts: a plain-text report offered for download and an HTML body for
// email delivery. Rendering never fails; sections with no backing data are
// omitted or annotated instead.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/finboard/finboard/internal/finance"
	"github.com/finboard/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// Section markers used in the text report.
const (
	SectionOverview  = "--- Financial Overview ---"
	SectionCashFlow  = "--- Monthly Cash Flow ---"
	SectionNetWorth  = "--- Net Worth Over Time ---"
	SectionPortfolio = "--- Investment Portfolio ---"
)

// Data is everything a report renders. GeneratedAt is injected so tests
// get deterministic output.
type Data struct {
	GeneratedAt    time.Time
	Transactions   []models.Transaction
	Summaries      []models.MonthlySummary
	NetWorth       []models.NetWorthSample
	Holdings       []models.Holding
	PortfolioTotal decimal.Decimal
	Warnings       []*models.UnknownSymbolWarning
}

// NetWorthDelta returns the change between the last and first net worth
// samples. It requires at least one sample; the boolean reports whether a
// delta could be computed.
func (d Data) NetWorthDelta() (decimal.Decimal, bool) {
	if len(d.NetWorth) == 0 {
		return decimal.Zero, false
	}
	first := d.NetWorth[0].NetWorth
	last := d.NetWorth[len(d.NetWorth)-1].NetWorth
	return last.Sub(first), true
}

// Format renders the full text report.
func Format(d Data) string {
	var b strings.Builder

	b.WriteString("Personal Finance Report\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", d.GeneratedAt.Format("2006-01-02 15:04:05")))

	// The overview depends on net worth presence: with zero samples both
	// the overview and the net worth section are skipped.
	if delta, ok := d.NetWorthDelta(); ok {
		income, expense := finance.Totals(d.Transactions)

		b.WriteString("\n" + SectionOverview + "\n")
		b.WriteString(fmt.Sprintf("Total Income:     %s\n", Money(income)))
		b.WriteString(fmt.Sprintf("Total Expenses:   %s\n", Money(expense)))
		b.WriteString(fmt.Sprintf("Net Worth Change: %s\n", Money(delta)))
	}

	if len(d.Summaries) > 0 {
		b.WriteString("\n" + SectionCashFlow + "\n")
		b.WriteString(fmt.Sprintf("%-9s %14s %14s %14s\n", "Month", "Income", "Expenses", "Net Flow"))
		for _, s := range d.Summaries {
			b.WriteString(fmt.Sprintf("%-9s %14s %14s %14s\n",
				s.Month, Money(s.TotalIncome), Money(s.TotalExpense), Money(s.NetFlow)))
		}
	}

	if len(d.NetWorth) > 0 {
		b.WriteString("\n" + SectionNetWorth + "\n")
		b.WriteString(fmt.Sprintf("%-12s %14s\n", "Date", "Net Worth"))
		for _, s := range d.NetWorth {
			b.WriteString(fmt.Sprintf("%-12s %14s\n", s.Date.Format("2006-01-02"), Money(s.NetWorth)))
		}
	}

	b.WriteString("\n" + SectionPortfolio + "\n")
	if len(d.Holdings) == 0 {
		b.WriteString("No portfolio data provided.\n")
	} else {
		unknown := make(map[string]bool, len(d.Warnings))
		for _, w := range d.Warnings {
			unknown[w.Symbol] = true
		}

		b.WriteString(fmt.Sprintf("%-8s %12s %12s %14s\n", "Symbol", "Quantity", "Price", "Value"))
		for _, h := range d.Holdings {
			note := ""
			if unknown[h.Symbol] {
				note = " (price unavailable)"
			}
			b.WriteString(fmt.Sprintf("%-8s %12s %12s %14s%s\n",
				h.Symbol, h.Quantity.String(), Money(h.UnitPrice), Money(h.Value), note))
		}
		b.WriteString(fmt.Sprintf("Total Portfolio Value: %s\n", Money(d.PortfolioTotal)))
	}

	return b.String()
}

// Money formats a decimal as a dollar amount with comma grouping, e.g.
// $1,234.56 or -$250.00.
func Money(d decimal.Decimal) string {
	sign := ""
	if d.Sign() < 0 {
		sign = "-"
		d = d.Abs()
	}

	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return fmt.Sprintf("%s$%s.%s", sign, b.String(), frac)
}
