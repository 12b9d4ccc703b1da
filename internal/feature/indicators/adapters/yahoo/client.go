package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"stock_analysis/internal/feature/indicators/adapters/yahoo/dto"
	"stock_analysis/internal/feature/indicators/domain"
	"stock_analysis/internal/feature/indicators/domain/entity"
	"stock_analysis/internal/feature/indicators/usecase"
	"stock_analysis/internal/platform/diskcache"
)

const (
	quoteMemoSize    = 256
	historyMemoSize  = 256
	dividendMemoSize = 512
)

// Client fetches quotes, price history, dividends and fundamental
// statements from Yahoo Finance. Three layers keep provider traffic
// down: bounded in-process LRU memoization (entries never expire within
// the memo), per-ticker disk snapshots of daily history with a 24h TTL,
// and a request rate limiter.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	disk    *diskcache.Store

	quoteMemo *lru.Cache[string, *entity.Quote]
	histMemo  *lru.Cache[string, entity.PriceSeries]
	divMemo   *lru.Cache[string, entity.DividendSeries]
}

// Clientがusecase.MarketDataRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketDataRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) (*Client, error) {
	disk, err := diskcache.NewStore(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	quoteMemo, _ := lru.New[string, *entity.Quote](quoteMemoSize)
	histMemo, _ := lru.New[string, entity.PriceSeries](historyMemoSize)
	divMemo, _ := lru.New[string, entity.DividendSeries](dividendMemoSize)
	return &Client{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 4),
		disk:    disk,

		quoteMemo: quoteMemo,
		histMemo:  histMemo,
		divMemo:   divMemo,
	}, nil
}

// getJSON executes a rate-limited GET and decodes the JSON body into out.
// Transport and HTTP-level failures map to domain.ErrDataUnavailable.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return domain.ErrTickerNotFound
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("%w: http %d", domain.ErrDataUnavailable, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", domain.ErrDataUnavailable, err)
	}
	return nil
}

// FetchQuote returns the current snapshot for a ticker from the
// quoteSummary endpoint.
func (c *Client) FetchQuote(ctx context.Context, ticker string) (*entity.Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if q, ok := c.quoteMemo.Get(ticker); ok {
		return q, nil
	}

	q := url.Values{}
	q.Set("modules", "price,summaryDetail,summaryProfile,defaultKeyStatistics,financialData")
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.cfg.BaseURL, url.PathEscape(ticker), q.Encode())

	var body dto.QuoteSummaryResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}
	if body.QuoteSummary.Error != nil {
		if body.QuoteSummary.Error.Code == "Not Found" {
			return nil, domain.ErrTickerNotFound
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrDataUnavailable, body.QuoteSummary.Error.Description)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, domain.ErrTickerNotFound
	}

	r := body.QuoteSummary.Result[0]
	quote := &entity.Quote{Ticker: ticker}
	if r.Price != nil {
		quote.LongName = r.Price.LongName
		if quote.LongName == "" {
			quote.LongName = r.Price.ShortName
		}
		quote.Exchange = r.Price.ExchangeName
		quote.QuoteType = r.Price.QuoteType
		quote.LastPrice = r.Price.RegularMarketPrice.Raw
		quote.PreviousClose = r.Price.PreviousClose.Raw
		quote.MarketCap = r.Price.MarketCap.Raw
	}
	if r.SummaryDetail != nil {
		quote.TrailingPE = r.SummaryDetail.TrailingPE.Raw
		quote.PayoutRatio = r.SummaryDetail.PayoutRatio.Raw
		if quote.PreviousClose == nil {
			quote.PreviousClose = r.SummaryDetail.PreviousClose.Raw
		}
	}
	if r.SummaryProfile != nil {
		quote.Sector = r.SummaryProfile.Sector
		quote.Industry = r.SummaryProfile.Industry
	}
	if r.DefaultKeyStatistics != nil {
		quote.TrailingEPS = r.DefaultKeyStatistics.TrailingEPS.Raw
		quote.SharesOutstanding = r.DefaultKeyStatistics.SharesOutstanding.Raw
		quote.BookValue = r.DefaultKeyStatistics.BookValue.Raw
	}
	if r.FinancialData != nil {
		quote.EBITDA = r.FinancialData.EBITDA.Raw
	}

	c.quoteMemo.Add(ticker, quote)
	return quote, nil
}

// FetchHistory returns the daily price series for a range. Daily 1-year
// and max-history lookups go through the disk snapshot store; everything
// else hits the provider directly. An empty series is a valid value.
func (c *Client) FetchHistory(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if interval == "" {
		interval = "1d"
	}
	key := ticker + "|" + rng + "|" + interval
	if s, ok := c.histMemo.Get(key); ok {
		return s, nil
	}

	snapshot := interval == "1d" && (rng == "1y" || rng == "max")
	if snapshot {
		if s, err := c.disk.Load(ticker, rng); err == nil {
			c.histMemo.Add(key, s)
			return s, nil
		} else if !errors.Is(err, diskcache.ErrMiss) && !errors.Is(err, diskcache.ErrStale) {
			slog.Warn("disk snapshot unreadable, refetching", "ticker", ticker, "range", rng, "error", err)
		}
	}

	series, _, err := c.fetchChart(ctx, ticker, rng, interval, false)
	if err != nil {
		if errors.Is(err, domain.ErrTickerNotFound) {
			// Unknown symbol: an empty series is the valid value here;
			// the assembler decides whether that is fatal.
			return entity.PriceSeries{}, nil
		}
		return nil, err
	}

	if snapshot && len(series) > 0 {
		if err := c.disk.Save(ticker, rng, series); err != nil {
			slog.Warn("failed to write disk snapshot", "ticker", ticker, "range", rng, "error", err)
		}
	}
	c.histMemo.Add(key, series)
	return series, nil
}

// FetchDividends returns the full dividend payment history, ascending by
// date. An empty series is a valid value.
func (c *Client) FetchDividends(ctx context.Context, ticker string) (entity.DividendSeries, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if d, ok := c.divMemo.Get(ticker); ok {
		return d, nil
	}

	_, dividends, err := c.fetchChart(ctx, ticker, "10y", "1d", true)
	if err != nil {
		if errors.Is(err, domain.ErrTickerNotFound) {
			return entity.DividendSeries{}, nil
		}
		return nil, err
	}
	c.divMemo.Add(ticker, dividends)
	return dividends, nil
}

// fetchChart hits the v8 chart endpoint and converts the response to the
// domain series. Null bars (holidays) are skipped.
func (c *Client) fetchChart(ctx context.Context, ticker, rng, interval string, withEvents bool) (entity.PriceSeries, entity.DividendSeries, error) {
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)
	if withEvents {
		q.Set("events", "div")
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.cfg.BaseURL, url.PathEscape(ticker), q.Encode())

	var body dto.ChartResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, nil, err
	}
	if body.Chart.Error != nil {
		if body.Chart.Error.Code == "Not Found" {
			return nil, nil, domain.ErrTickerNotFound
		}
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrDataUnavailable, body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return entity.PriceSeries{}, entity.DividendSeries{}, nil
	}

	r := body.Chart.Result[0]
	series := make(entity.PriceSeries, 0, len(r.Timestamp))
	if len(r.Indicators.Quote) > 0 {
		quote := r.Indicators.Quote[0]
		var adj []*float64
		if len(r.Indicators.AdjClose) > 0 {
			adj = r.Indicators.AdjClose[0].AdjClose
		}
		for i, ts := range r.Timestamp {
			pt := entity.PricePoint{Date: time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)}
			pt.Open = deref(quote.Open, i)
			pt.High = deref(quote.High, i)
			pt.Low = deref(quote.Low, i)
			pt.Close = deref(quote.Close, i)
			pt.AdjClose = deref(adj, i)
			if vi := derefInt(quote.Volume, i); vi != nil {
				pt.Volume = *vi
			}
			if pt.Open == 0 && pt.High == 0 && pt.Low == 0 && pt.Close == 0 {
				continue // null bar (holiday etc.)
			}
			series = append(series, pt)
		}
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	var dividends entity.DividendSeries
	if r.Events != nil {
		for _, d := range r.Events.Dividends {
			dividends = append(dividends, entity.DividendPayment{
				Date:   time.Unix(d.Date, 0).UTC().Truncate(24 * time.Hour),
				Amount: d.Amount,
			})
		}
		sort.Slice(dividends, func(i, j int) bool { return dividends[i].Date.Before(dividends[j].Date) })
	}
	return series, dividends, nil
}

// statementTypes maps each statement kind to the timeseries type keys
// and the canonical line-item labels the aggregator looks up. Labels
// must match the provider's vocabulary verbatim.
var statementTypes = map[entity.StatementKind]map[string]string{
	entity.QuarterlyIncome: {
		"quarterlyNetIncome":    "Net Income",
		"quarterlyTotalRevenue": "Total Revenue",
		"quarterlyDilutedEPS":   "Diluted EPS",
		"quarterlyEBITDA":       "EBITDA",
	},
	entity.AnnualIncome: {
		"annualNetIncome":    "Net Income",
		"annualTotalRevenue": "Total Revenue",
		"annualDilutedEPS":   "Diluted EPS",
		"annualEBITDA":       "EBITDA",
	},
	entity.QuarterlyBalanceSheet: {
		"quarterlyStockholdersEquity": "Stockholders Equity",
		"quarterlyTotalAssets":        "Total Assets",
	},
	entity.AnnualBalanceSheet: {
		"annualStockholdersEquity": "Stockholders Equity",
		"annualTotalAssets":        "Total Assets",
	},
	entity.QuarterlyCashFlow: {
		"quarterlyFreeCashFlow":      "Free Cash Flow",
		"quarterlyOperatingCashFlow": "Operating Cash Flow",
	},
	entity.AnnualCashFlow: {
		"annualFreeCashFlow":      "Free Cash Flow",
		"annualOperatingCashFlow": "Operating Cash Flow",
	},
}

// FetchFundamentals returns one fundamental statement. Period values are
// ordered most recent first. Absence of a statement or line item is a
// valid state; the caller degrades to NaN.
func (c *Client) FetchFundamentals(ctx context.Context, ticker string, kind entity.StatementKind) (*entity.FundamentalStatement, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	types, ok := statementTypes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}

	keys := make([]string, 0, len(types))
	for k := range types {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now()
	q := url.Values{}
	q.Set("type", strings.Join(keys, ","))
	q.Set("period1", fmt.Sprintf("%d", now.AddDate(-5, 0, 0).Unix()))
	q.Set("period2", fmt.Sprintf("%d", now.Unix()))
	u := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?%s",
		c.cfg.BaseURL, url.PathEscape(ticker), q.Encode())

	var body dto.TimeSeriesResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		if errors.Is(err, domain.ErrTickerNotFound) {
			return &entity.FundamentalStatement{Kind: kind, Items: map[string][]float64{}}, nil
		}
		return nil, err
	}
	if body.Timeseries.Error != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDataUnavailable, body.Timeseries.Error.Description)
	}

	stmt := &entity.FundamentalStatement{Kind: kind, Items: map[string][]float64{}}
	for _, raw := range body.Timeseries.Result {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		var meta dto.TimeSeriesMeta
		if err := json.Unmarshal(fields["meta"], &meta); err != nil || len(meta.Type) == 0 {
			continue
		}
		typeKey := meta.Type[0]
		label, ok := types[typeKey]
		if !ok {
			continue
		}
		rowsRaw, ok := fields[typeKey]
		if !ok {
			continue
		}
		var rows []*dto.TimeSeriesRow
		if err := json.Unmarshal(rowsRaw, &rows); err != nil {
			continue
		}
		// Provider order is ascending by asOfDate; the statement
		// contract wants most recent first.
		var vals []float64
		for i := len(rows) - 1; i >= 0; i-- {
			if rows[i] == nil || rows[i].ReportedValue.Raw == nil {
				continue
			}
			vals = append(vals, *rows[i].ReportedValue.Raw)
		}
		if len(vals) > 0 {
			stmt.Items[label] = vals
		}
	}
	return stmt, nil
}

func deref(xs []*float64, i int) float64 {
	if i >= len(xs) || xs[i] == nil {
		return 0
	}
	return *xs[i]
}

func derefInt(xs []*int64, i int) *int64 {
	if i >= len(xs) || xs[i] == nil {
		return nil
	}
	return xs[i]
}
