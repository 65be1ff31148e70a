package report

import (
	"fmt"
	"strings"

	"github.com/finboard/finboard/internal/finance"
)

// RenderHTMLBody renders the report data as an HTML email body.
func RenderHTMLBody(d Data) string {
	var sections strings.Builder

	if delta, ok := d.NetWorthDelta(); ok {
		income, expense := overviewTotals(d)
		sections.WriteString(fmt.Sprintf(`
		<h3 style="color: #0078d4;">Financial Overview</h3>
		<table style="width: 100%%; border-collapse: collapse; margin-bottom: 20px;">
			<tr><td style="padding: 6px 0;">Total Income</td><td style="text-align: right;">%s</td></tr>
			<tr><td style="padding: 6px 0;">Total Expenses</td><td style="text-align: right;">%s</td></tr>
			<tr><td style="padding: 6px 0;">Net Worth Change</td><td style="text-align: right;"><b>%s</b></td></tr>
		</table>
	`, income, expense, Money(delta)))
	}

	if len(d.Summaries) > 0 {
		var rows strings.Builder
		for _, s := range d.Summaries {
			rows.WriteString(fmt.Sprintf(
				`<tr><td style="padding: 4px 8px;">%s</td><td style="text-align: right;">%s</td><td style="text-align: right;">%s</td><td style="text-align: right;">%s</td></tr>`,
				s.Month, Money(s.TotalIncome), Money(s.TotalExpense), Money(s.NetFlow)))
		}
		sections.WriteString(fmt.Sprintf(`
		<h3 style="color: #0078d4;">Monthly Cash Flow</h3>
		<table style="width: 100%%; border-collapse: collapse; margin-bottom: 20px;">
			<tr style="border-bottom: 1px solid #ddd;"><th style="text-align: left; padding: 4px 8px;">Month</th><th style="text-align: right;">Income</th><th style="text-align: right;">Expenses</th><th style="text-align: right;">Net Flow</th></tr>
			%s
		</table>
	`, rows.String()))
	}

	if len(d.Holdings) > 0 {
		var rows strings.Builder
		for _, h := range d.Holdings {
			rows.WriteString(fmt.Sprintf(
				`<tr><td style="padding: 4px 8px;">%s</td><td style="text-align: right;">%s</td><td style="text-align: right;">%s</td><td style="text-align: right;">%s</td></tr>`,
				h.Symbol, h.Quantity.String(), Money(h.UnitPrice), Money(h.Value)))
		}
		sections.WriteString(fmt.Sprintf(`
		<h3 style="color: #0078d4;">Investment Portfolio</h3>
		<table style="width: 100%%; border-collapse: collapse; margin-bottom: 8px;">
			<tr style="border-bottom: 1px solid #ddd;"><th style="text-align: left; padding: 4px 8px;">Symbol</th><th style="text-align: right;">Quantity</th><th style="text-align: right;">Price</th><th style="text-align: right;">Value</th></tr>
			%s
		</table>
		<p><b>Total Portfolio Value:</b> %s</p>
	`, rows.String(), Money(d.PortfolioTotal)))
	}

	if len(d.Warnings) > 0 {
		var items strings.Builder
		for _, w := range d.Warnings {
			items.WriteString(fmt.Sprintf("<li>%s</li>", w.Error()))
		}
		sections.WriteString(fmt.Sprintf(`
		<div style="background-color: #fff8e6; border-left: 5px solid #c19c00; padding: 15px; margin-top: 20px;">
			<b>Pricing warnings</b>
			<ul style="margin-bottom: 0; padding-left: 20px;">%s</ul>
		</div>
	`, items.String()))
	}

	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #0078d4; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">Personal Finance Report</h2>
					<p style="margin: 4px 0 0;">%s</p>
				</div>
				<div style="padding: 20px;">
					%s
				</div>
			</div>
		</body>
		</html>
	`, d.GeneratedAt.Format("2006-01-02"), sections.String())
}

// RenderErrorSection renders the ingest-error section HTML.
func RenderErrorSection(errors []string) string {
	if len(errors) == 0 {
		return ""
	}

	var errorItems strings.Builder
	for _, e := range errors {
		errorItems.WriteString(fmt.Sprintf("<li>%s</li>", e))
	}

	return fmt.Sprintf(`
		<div style="background-color: #fff4f4; border-left: 5px solid #d13438; padding: 15px; margin-bottom: 20px;">
			<h3 style="color: #d13438; margin-top: 0; font-size: 18px;">Warning: some rows were skipped</h3>
			<ul style="margin-bottom: 0; padding-left: 20px;">
				%s
			</ul>
		</div>
	`, errorItems.String())
}

// RenderErrorBody renders the full HTML body for an ingest failure email.
func RenderErrorBody(errors []string) string {
	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #d13438; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">Upload Failed</h2>
				</div>
				<div style="padding: 20px;">
					<p>The uploaded CSV could not be processed due to the following errors:</p>
					%s
				</div>
			</div>
		</body>
		</html>
	`, RenderErrorSection(errors))
}

func overviewTotals(d Data) (string, string) {
	income, expense := finance.Totals(d.Transactions)
	return Money(income), Money(expense)
}
