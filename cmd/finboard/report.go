package main

import (
	"fmt"
	"os"
	"time"

	"github.com/finboard/finboard/internal/csvparse"
	"github.com/finboard/finboard/internal/finance"
	"github.com/finboard/finboard/internal/pricing"
	"github.com/finboard/finboard/internal/report"
	"github.com/spf13/cobra"
)

var (
	transactionsFile string
	netWorthFile     string
	portfolioFile    string
	outputFile       string
)

func init() {
	reportCmd.Flags().StringVar(&transactionsFile, "transactions", "", "transactions CSV file (required)")
	reportCmd.Flags().StringVar(&netWorthFile, "networth", "", "net worth CSV file")
	reportCmd.Flags().StringVar(&portfolioFile, "portfolio", "", "portfolio CSV file")
	reportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the report to a file instead of stdout")
	reportCmd.MarkFlagRequired("transactions")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a financial report from local CSV files",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := buildLocalReport()
		if err != nil {
			return err
		}

		text := report.Format(data)
		if outputFile == "" {
			fmt.Print(text)
			return nil
		}
		if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outputFile)
		return nil
	},
}

func buildLocalReport() (report.Data, error) {
	data := report.Data{GeneratedAt: time.Now()}

	content, err := os.ReadFile(transactionsFile)
	if err != nil {
		return data, fmt.Errorf("read transactions: %w", err)
	}
	table, err := csvparse.Parse(string(content))
	if err != nil {
		return data, fmt.Errorf("parse transactions: %w", err)
	}
	transactions, rowErrors, err := finance.Normalize(table)
	if err != nil {
		return data, fmt.Errorf("normalize transactions: %w", err)
	}
	reportRowErrors(transactionsFile, rowErrors)

	data.Transactions = transactions
	data.Summaries, _, _ = finance.Aggregate(transactions)

	if netWorthFile != "" {
		content, err := os.ReadFile(netWorthFile)
		if err != nil {
			return data, fmt.Errorf("read net worth: %w", err)
		}
		samples, rowErrors, err := csvparse.ParseNetWorth(string(content))
		if err != nil {
			return data, fmt.Errorf("parse net worth: %w", err)
		}
		reportRowErrors(netWorthFile, rowErrors)
		data.NetWorth = samples
	}

	if portfolioFile != "" {
		content, err := os.ReadFile(portfolioFile)
		if err != nil {
			return data, fmt.Errorf("read portfolio: %w", err)
		}
		holdings, rowErrors, err := csvparse.ParsePortfolio(string(content))
		if err != nil {
			return data, fmt.Errorf("parse portfolio: %w", err)
		}
		reportRowErrors(portfolioFile, rowErrors)

		prices := pricing.DefaultStatic()
		valued, warnings := finance.ValuePortfolio(holdings, prices.Price)
		data.Holdings = valued
		data.PortfolioTotal = finance.TotalValue(valued)
		data.Warnings = warnings
	}

	return data, nil
}

func reportRowErrors(filename string, errs []error) {
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
	}
}
