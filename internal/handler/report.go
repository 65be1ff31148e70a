package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/finboard/finboard/internal/finance"
	"github.com/finboard/finboard/internal/report"
	"github.com/shopspring/decimal"
)

// BuildReportData assembles a full report snapshot from stored data.
func (d *Dependencies) BuildReportData(ctx context.Context) (report.Data, error) {
	transactions, err := d.Database.GetTransactions(ctx)
	if err != nil {
		return report.Data{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	summaries, _, _ := finance.Aggregate(transactions)

	netWorth, err := d.Database.GetNetWorthSamples(ctx)
	if err != nil {
		return report.Data{}, fmt.Errorf("failed to load net worth samples: %w", err)
	}

	holdings, err := d.Database.GetHoldings(ctx)
	if err != nil {
		return report.Data{}, fmt.Errorf("failed to load holdings: %w", err)
	}

	valued, warnings := finance.ValuePortfolio(holdings, d.Prices.Price)

	return report.Data{
		GeneratedAt:    d.now(),
		Transactions:   transactions,
		Summaries:      summaries,
		NetWorth:       netWorth,
		Holdings:       valued,
		PortfolioTotal: finance.TotalValue(valued),
		Warnings:       warnings,
	}, nil
}

// HandleReport returns the full plain-text report.
func (d *Dependencies) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, err := d.BuildReportData(r.Context())
	if err != nil {
		slog.Error("failed to build report", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to build report: "+err.Error())
		return
	}

	slog.Info("report generated",
		"transactions", len(data.Transactions),
		"months", len(data.Summaries),
		"holdings", len(data.Holdings),
	)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="financial-report.txt"`)
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, report.Format(data))
}

// cashFlowMonth is the JSON shape for one month in the cash flow response.
type cashFlowMonth struct {
	Month        string          `json:"month"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetFlow      decimal.Decimal `json:"netFlow"`
}

// HandleCashFlow returns monthly income and expense aggregates as JSON.
func (d *Dependencies) HandleCashFlow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	transactions, err := d.Database.GetTransactions(r.Context())
	if err != nil {
		slog.Error("failed to load transactions for cash flow", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load transactions: "+err.Error())
		return
	}

	summaries, _, _ := finance.Aggregate(transactions)

	months := make([]cashFlowMonth, len(summaries))
	for i, s := range summaries {
		months[i] = cashFlowMonth{
			Month:        s.Month,
			TotalIncome:  s.TotalIncome,
			TotalExpense: s.TotalExpense,
			NetFlow:      s.NetFlow,
		}
	}

	slog.Info("cash flow computed", "transactions", len(transactions), "months", len(months))
	WriteJSON(w, http.StatusOK, months)
}

// HandleRunReport triggers the nightly report pipeline on demand.
func (d *Dependencies) HandleRunReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	blobName, err := d.RunNightlyReport(r.Context())
	if err != nil {
		slog.Error("failed to run report job", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to run report: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"blobName": blobName,
	})
}
