package pricing

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteClient fetches current prices from a Yahoo-style chart API.
type QuoteClient struct {
	Client    *http.Client
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to provider ticker
}

const defaultQuoteBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// NewQuoteClient creates a quote client. An empty baseURL selects the
// public Yahoo Finance chart endpoint.
func NewQuoteClient(baseURL string) *QuoteClient {
	if baseURL == "" {
		baseURL = defaultQuoteBaseURL
	}
	return &QuoteClient{
		Client:    &http.Client{Timeout: 30 * time.Second},
		BaseURL:   baseURL,
		SymbolMap: map[string]string{},
	}
}

// chartResponse is the subset of the chart API response we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *QuoteClient) ticker(symbol string) string {
	if mapped, ok := c.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// FetchCurrentPrice fetches the latest market price for a symbol.
func (c *QuoteClient) FetchCurrentPrice(symbol string) (decimal.Decimal, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=1d", c.BaseURL, url.PathEscape(c.ticker(symbol)))

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.Client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return decimal.Zero, fmt.Errorf("quote decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return decimal.Zero, fmt.Errorf("quote api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return decimal.Zero, fmt.Errorf("quote: no data for %s", symbol)
	}

	return decimal.NewFromFloat(chart.Chart.Result[0].Meta.RegularMarketPrice), nil
}

// Price implements Source. Fetch failures are logged and reported as a
// miss so valuation degrades instead of failing.
func (c *QuoteClient) Price(symbol string) (decimal.Decimal, bool) {
	p, err := c.FetchCurrentPrice(symbol)
	if err != nil {
		slog.Warn("price fetch failed", "symbol", symbol, "error", err)
		return decimal.Zero, false
	}
	return p, true
}
