package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finboard",
	Short: "Normalize transactions and build personal finance reports",
	Long: `Finboard processes transaction CSV exports, aggregates monthly cash
flow, values an investment portfolio, and renders a plain-text report.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Finboard")
		fmt.Println("Use --help for available commands")
	},
}
