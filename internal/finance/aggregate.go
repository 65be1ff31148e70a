package finance

import (
	"sort"

	"github.com/finboard/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// Aggregate groups transactions by month and returns the monthly summaries
// plus independent income-by-month and expense-by-month series. Months with
// no transactions are absent; a month appears in the income or expense
// series only when it has transactions of that kind. All three outputs are
// in ascending chronological order. Empty input yields empty outputs.
func Aggregate(txs []models.Transaction) ([]models.MonthlySummary, []models.MonthFlow, []models.MonthFlow) {
	type bucket struct {
		income  decimal.Decimal
		expense decimal.Decimal
		hasInc  bool
		hasExp  bool
	}

	buckets := make(map[string]*bucket)
	for _, t := range txs {
		b := buckets[t.Month]
		if b == nil {
			b = &bucket{}
			buckets[t.Month] = b
		}
		if t.Type == models.TypeIncome {
			b.income = b.income.Add(t.Amount)
			b.hasInc = true
		} else {
			b.expense = b.expense.Add(t.Amount)
			b.hasExp = true
		}
	}

	// Month keys are YYYY-MM, so a plain string sort is chronological.
	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	summaries := make([]models.MonthlySummary, 0, len(months))
	var income, expense []models.MonthFlow

	for _, m := range months {
		b := buckets[m]
		summaries = append(summaries, models.MonthlySummary{
			Month:        m,
			NetFlow:      b.income.Sub(b.expense),
			TotalIncome:  b.income,
			TotalExpense: b.expense,
		})
		if b.hasInc {
			income = append(income, models.MonthFlow{Month: m, Amount: b.income})
		}
		if b.hasExp {
			expense = append(expense, models.MonthFlow{Month: m, Amount: b.expense})
		}
	}

	return summaries, income, expense
}

// Totals returns the overall income and expense sums across all
// transactions, for the report overview.
func Totals(txs []models.Transaction) (income, expense decimal.Decimal) {
	for _, t := range txs {
		if t.Type == models.TypeIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}
