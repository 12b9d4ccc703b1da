package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stock_analysis/internal/feature/indicators/domain"
	"stock_analysis/internal/feature/indicators/domain/entity"
)

// testConfig returns a client configuration pointing at the given test
// server, with disk snapshots kept in a temporary directory.
func testConfig(t *testing.T, baseURL string) Config {
	t.Helper()
	return Config{
		BaseURL:  baseURL,
		CacheDir: t.TempDir(),
		CacheTTL: 24 * time.Hour,
		Timeout:  10 * time.Second,
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(testConfig(t, "https://example.invalid"), &http.Client{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected non-nil client")
	}
}

func TestClient_FetchQuote_Success(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("modules") == "" {
			t.Error("expected modules query parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"quoteSummary": {
				"result": [{
					"price": {
						"longName": "Apple Inc.",
						"exchangeName": "NasdaqGS",
						"quoteType": "EQUITY",
						"regularMarketPrice": {"raw": 154.50},
						"regularMarketPreviousClose": {"raw": 150.00},
						"marketCap": {"raw": 2400000000000}
					},
					"summaryDetail": {
						"trailingPE": {"raw": 28.5},
						"payoutRatio": {"raw": 0.15}
					},
					"summaryProfile": {
						"sector": "Technology",
						"industry": "Consumer Electronics"
					},
					"defaultKeyStatistics": {
						"trailingEps": {"raw": 5.42},
						"sharesOutstanding": {"raw": 15500000000},
						"bookValue": {"raw": 4.25}
					},
					"financialData": {
						"ebitda": {"raw": 130000000000}
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL), server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	quote, err := client.FetchQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.Ticker != "AAPL" {
		t.Errorf("expected ticker AAPL, got %s", quote.Ticker)
	}
	if quote.LongName != "Apple Inc." {
		t.Errorf("expected long name Apple Inc., got %s", quote.LongName)
	}
	if quote.Exchange != "NasdaqGS" {
		t.Errorf("expected exchange NasdaqGS, got %s", quote.Exchange)
	}
	if quote.LastPrice == nil || *quote.LastPrice != 154.50 {
		t.Errorf("expected last price 154.50, got %v", quote.LastPrice)
	}
	if quote.PreviousClose == nil || *quote.PreviousClose != 150.00 {
		t.Errorf("expected previous close 150.00, got %v", quote.PreviousClose)
	}
	if quote.TrailingPE == nil || *quote.TrailingPE != 28.5 {
		t.Errorf("expected trailing PE 28.5, got %v", quote.TrailingPE)
	}
	if quote.Sector != "Technology" {
		t.Errorf("expected sector Technology, got %s", quote.Sector)
	}
	if quote.TrailingEPS == nil || *quote.TrailingEPS != 5.42 {
		t.Errorf("expected trailing EPS 5.42, got %v", quote.TrailingEPS)
	}
	if quote.EBITDA == nil || *quote.EBITDA != 130000000000 {
		t.Errorf("expected EBITDA 130000000000, got %v", quote.EBITDA)
	}

	// Second call is served from the memo, not the provider
	if _, err := client.FetchQuote(context.Background(), "AAPL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 provider call, got %d", got)
	}
}

func TestClient_FetchQuote_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"quoteSummary": {
				"result": null,
				"error": {"code": "Not Found", "description": "No data found"}
			}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL), server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.FetchQuote(context.Background(), "NOSUCHTICKER")
	if !errors.Is(err, domain.ErrTickerNotFound) {
		t.Errorf("expected ErrTickerNotFound, got %v", err)
	}
}

func TestClient_FetchQuote_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		statusCode  int
		expectedErr error
	}{
		{"not found", http.StatusNotFound, domain.ErrTickerNotFound},
		{"unauthorized", http.StatusUnauthorized, domain.ErrDataUnavailable},
		{"too many requests", http.StatusTooManyRequests, domain.ErrDataUnavailable},
		{"internal server error", http.StatusInternalServerError, domain.ErrDataUnavailable},
		{"service unavailable", http.StatusServiceUnavailable, domain.ErrDataUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client, err := NewClient(testConfig(t, server.URL), server.Client())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			_, err = client.FetchQuote(context.Background(), "AAPL")
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestClient_FetchHistory_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("range") != "3mo" {
			t.Errorf("expected range 3mo, got %s", r.URL.Query().Get("range"))
		}
		if r.URL.Query().Get("interval") != "1d" {
			t.Errorf("expected interval 1d, got %s", r.URL.Query().Get("interval"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"symbol": "AAPL"},
					"timestamp": [1736899200, 1736985600, 1737072000],
					"indicators": {
						"quote": [{
							"open": [150.0, null, 152.0],
							"high": [155.0, null, 156.0],
							"low": [149.0, null, 151.0],
							"close": [154.5, null, 155.2],
							"volume": [1000000, null, 900000]
						}],
						"adjclose": [{"adjclose": [154.0, null, 155.2]}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL), server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	series, err := client.FetchHistory(context.Background(), "AAPL", "3mo", "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The null bar (holiday) is skipped
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	if series[0].Close != 154.5 {
		t.Errorf("expected close 154.5, got %f", series[0].Close)
	}
	if series[0].Volume != 1000000 {
		t.Errorf("expected volume 1000000, got %d", series[0].Volume)
	}
	if series[1].AdjClose != 155.2 {
		t.Errorf("expected adjclose 155.2, got %f", series[1].AdjClose)
	}
	if !series[0].Date.Before(series[1].Date) {
		t.Error("expected series sorted ascending by date")
	}
}

func TestClient_FetchHistory_UnknownTicker(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": null,
				"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
			}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL), server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unknown symbols yield an empty series, not an error
	series, err := client.FetchHistory(context.Background(), "NOSUCHTICKER", "1y", "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series, got %d points", len(series))
	}
}

func TestClient_FetchHistory_DiskSnapshot(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"symbol": "AAPL"},
					"timestamp": [1736899200],
					"indicators": {
						"quote": [{
							"open": [150.0], "high": [155.0], "low": [149.0],
							"close": [154.5], "volume": [1000000]
						}],
						"adjclose": [{"adjclose": [154.0]}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	client1, err := NewClient(cfg, server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client1.FetchHistory(context.Background(), "AAPL", "1y", "1d"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh client sharing the cache directory reads the snapshot
	// instead of calling the provider again.
	client2, err := NewClient(cfg, server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	series, err := client2.FetchHistory(context.Background(), "AAPL", "1y", "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected 1 point, got %d", len(series))
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 provider call, got %d", got)
	}
}

func TestClient_FetchDividends_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("events") != "div" {
			t.Errorf("expected events=div, got %s", r.URL.Query().Get("events"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"symbol": "AAPL"},
					"timestamp": [1736899200],
					"indicators": {
						"quote": [{
							"open": [150.0], "high": [155.0], "low": [149.0],
							"close": [154.5], "volume": [1000000]
						}]
					},
					"events": {
						"dividends": {
							"1731672000": {"amount": 0.25, "date": 1731672000},
							"1723723200": {"amount": 0.24, "date": 1723723200}
						}
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL), server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dividends, err := client.FetchDividends(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dividends) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(dividends))
	}
	// Sorted ascending regardless of map iteration order
	if !dividends[0].Date.Before(dividends[1].Date) {
		t.Error("expected dividends sorted ascending by date")
	}
	if dividends[0].Amount != 0.24 {
		t.Errorf("expected first amount 0.24, got %f", dividends[0].Amount)
	}
}

func TestClient_FetchFundamentals_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"timeseries": {
				"result": [
					{
						"meta": {"symbol": ["AAPL"], "type": ["quarterlyNetIncome"]},
						"quarterlyNetIncome": [
							{"asOfDate": "2024-12-31", "reportedValue": {"raw": 20000000000}},
							{"asOfDate": "2025-03-31", "reportedValue": {"raw": 24000000000}},
							null,
							{"asOfDate": "2025-06-30", "reportedValue": {"raw": 23000000000}}
						]
					},
					{
						"meta": {"symbol": ["AAPL"], "type": ["quarterlyTotalRevenue"]},
						"quarterlyTotalRevenue": [
							{"asOfDate": "2025-03-31", "reportedValue": {"raw": 90000000000}},
							{"asOfDate": "2025-06-30", "reportedValue": {"raw": 95000000000}}
						]
					}
				],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL), server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stmt, err := client.FetchFundamentals(context.Background(), "AAPL", entity.QuarterlyIncome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	income, ok := stmt.Items["Net Income"]
	if !ok {
		t.Fatal("expected Net Income line item")
	}
	// Most recent first, nulls skipped
	if len(income) != 3 {
		t.Fatalf("expected 3 values, got %d", len(income))
	}
	if income[0] != 23000000000 {
		t.Errorf("expected most recent value first, got %f", income[0])
	}

	revenue, ok := stmt.Items["Total Revenue"]
	if !ok {
		t.Fatal("expected Total Revenue line item")
	}
	if revenue[0] != 95000000000 {
		t.Errorf("expected most recent revenue 95000000000, got %f", revenue[0])
	}
}

func TestClient_FetchFundamentals_UnknownTicker(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL), server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Missing fundamentals are a valid state: empty statement, no error
	stmt, err := client.FetchFundamentals(context.Background(), "NOSUCHTICKER", entity.AnnualIncome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Items) != 0 {
		t.Errorf("expected empty statement, got %d items", len(stmt.Items))
	}
}
