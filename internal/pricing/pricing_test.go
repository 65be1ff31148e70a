package pricing

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStatic_Price(t *testing.T) {
	s := DefaultStatic()

	p, ok := s.Price("AAPL")
	if !ok {
		t.Fatal("Expected AAPL to be priced")
	}
	if !p.Equal(decimal.NewFromFloat(175.50)) {
		t.Errorf("Expected 175.50, got %s", p)
	}

	if _, ok := s.Price("TSLA"); ok {
		t.Error("Expected miss for unseeded symbol")
	}
}

func TestNewStatic_DropsBadEntries(t *testing.T) {
	s := NewStatic(map[string]string{"GOOD": "1.50", "BAD": "one fifty"})

	if _, ok := s.Price("GOOD"); !ok {
		t.Error("Expected GOOD to be priced")
	}
	if _, ok := s.Price("BAD"); ok {
		t.Error("Expected unparseable entry to be dropped")
	}
}

func TestQuoteClient_FetchCurrentPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/AAPL" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"regularMarketPrice":175.5}}]}}`)
	}))
	defer srv.Close()

	c := NewQuoteClient(srv.URL)
	p, err := c.FetchCurrentPrice("AAPL")
	if err != nil {
		t.Fatalf("FetchCurrentPrice returned error: %v", err)
	}
	if !p.Equal(decimal.NewFromFloat(175.5)) {
		t.Errorf("Expected 175.5, got %s", p)
	}
}

func TestQuoteClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	c := NewQuoteClient(srv.URL)
	if _, err := c.FetchCurrentPrice("NOPE"); err == nil {
		t.Error("Expected error for API error response")
	}

	// Source interface degrades errors to a miss.
	if _, ok := c.Price("NOPE"); ok {
		t.Error("Expected Price to report a miss on fetch error")
	}
}

func TestQuoteClient_SymbolMap(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"regularMarketPrice":1}}]}}`)
	}))
	defer srv.Close()

	c := NewQuoteClient(srv.URL)
	c.SymbolMap["SP500"] = "^GSPC"
	if _, err := c.FetchCurrentPrice("SP500"); err != nil {
		t.Fatalf("FetchCurrentPrice returned error: %v", err)
	}
	if gotPath != "/%5EGSPC" && gotPath != "/^GSPC" {
		t.Errorf("Expected mapped ticker in path, got %q", gotPath)
	}
}

func TestFallback(t *testing.T) {
	primary := NewStatic(map[string]string{"AAPL": "180.00"})
	secondary := DefaultStatic()
	f := &Fallback{Primary: primary, Secondary: secondary}

	p, ok := f.Price("AAPL")
	if !ok || !p.Equal(decimal.NewFromFloat(180.00)) {
		t.Errorf("Expected primary price 180.00, got %s (ok=%v)", p, ok)
	}

	p, ok = f.Price("MSFT")
	if !ok || !p.Equal(decimal.NewFromFloat(325.75)) {
		t.Errorf("Expected fallback price 325.75, got %s (ok=%v)", p, ok)
	}

	if _, ok := f.Price("TSLA"); ok {
		t.Error("Expected miss when both sources miss")
	}
}
