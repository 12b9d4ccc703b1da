// Package usecase implements the indicator computation engine: benchmark
// resolution, fundamental aggregation, statistical estimation and the
// assembly of the final metric map.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"stock_analysis/internal/feature/indicators/domain"
	"stock_analysis/internal/feature/indicators/domain/entity"
)

const (
	// DefaultPercentile is the default tail percentile for VaR/CVaR.
	DefaultPercentile = 0.05
	// DefaultRSIPeriod is the default RSI smoothing period.
	DefaultRSIPeriod = 14
	// DefaultRiskFree is the default annual risk-free rate.
	DefaultRiskFree = 0.02
)

// MarketDataRepository abstracts the external market-data provider.
// Following Go convention, the interface is defined by the consumer
// (usecase), not the provider (adapters), so the provider can be swapped
// or mocked without touching the estimator or aggregator.
type MarketDataRepository interface {
	// FetchQuote returns the current snapshot for a ticker. A nil error
	// with sparse fields is a valid outcome.
	FetchQuote(ctx context.Context, ticker string) (*entity.Quote, error)

	// FetchHistory returns the daily price series for a range such as
	// "1y" or "max". An empty series is a valid value, not an error.
	FetchHistory(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error)

	// FetchDividends returns the full dividend payment history.
	FetchDividends(ctx context.Context, ticker string) (entity.DividendSeries, error)

	// FetchFundamentals returns one fundamental statement for a ticker.
	FetchFundamentals(ctx context.Context, ticker string, kind entity.StatementKind) (*entity.FundamentalStatement, error)
}

// indicatorsUsecase assembles the full indicator map for a ticker.
type indicatorsUsecase struct {
	market MarketDataRepository
}

// NewIndicatorsUsecase はindicatorsUsecaseの新しいインスタンスを生成します。
func NewIndicatorsUsecase(market MarketDataRepository) *indicatorsUsecase {
	return &indicatorsUsecase{market: market}
}

// Compute orchestrates the whole pipeline: resolve the benchmark, fetch
// the raw series and statements, aggregate fundamentals, run the
// estimator, then merge and sanitize the result.
//
// A missing ticker or wholly empty price history returns
// domain.ErrTickerNotFound. Per-metric missing inputs degrade locally to
// nil and never abort the request. Any other unexpected failure is
// wrapped in a domain.ComputationError.
func (u *indicatorsUsecase) Compute(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, domain.ErrTickerNotFound
	}
	if p <= 0 {
		p = DefaultPercentile
	}
	if n <= 0 {
		n = DefaultRSIPeriod
	}

	// Quote metadata. A failed lookup is swallowed: the resolver treats
	// a missing exchange as "no match" and price fields degrade to nil.
	quote, err := u.market.FetchQuote(ctx, ticker)
	if err != nil {
		slog.Warn("quote fetch failed, continuing without metadata", "ticker", ticker, "error", err)
		quote = &entity.Quote{Ticker: ticker}
	}

	hist, err := u.market.FetchHistory(ctx, ticker, "1y", "1d")
	if err != nil {
		return nil, err
	}
	if len(hist) == 0 {
		return nil, domain.ErrTickerNotFound
	}

	bench := resolveBenchmark(ticker, quote.Exchange)

	// Benchmark history failures degrade the regression metrics only.
	benchHist, err := u.market.FetchHistory(ctx, bench.Index, "1y", "1d")
	if err != nil {
		slog.Warn("benchmark history unavailable", "benchmark", bench.Index, "error", err)
		benchHist = nil
	}

	stats, err := estimateMarketStats(hist, benchHist, p, n, rfAnnual)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientHistory) {
			return nil, err
		}
		return nil, &domain.ComputationError{Ticker: ticker, Err: err}
	}

	out := entity.IndicatorResult{
		"Full Name": orNil(quote.LongName),
		"sector":    orNil(quote.Sector),
		"industry":  orNil(quote.Industry),
		"type":      orNil(quote.QuoteType),
		"market":    bench.Index,
		"Benchmark": orNil(quote.Exchange),

		"payout ratio":       ptrVal(quote.PayoutRatio),
		"shares outstanding": ptrVal(quote.SharesOutstanding),
		"book value":         ptrVal(quote.BookValue),
	}

	u.mergePriceStatus(out, quote, hist)
	u.mergeFundamentals(ctx, out, ticker, quote, hist)
	mergeMarketStats(out, stats)

	// Rate-sensitivity proxy over the full histories.
	maxHist, err := u.market.FetchHistory(ctx, ticker, "max", "1d")
	if err != nil {
		slog.Warn("max history unavailable", "ticker", ticker, "error", err)
	}
	rateHist, err := u.market.FetchHistory(ctx, bench.Index, "max", "1d")
	if err != nil {
		slog.Warn("benchmark max history unavailable", "benchmark", bench.Index, "error", err)
	}
	out["market sensibility"] = ptrVal(rateSensitivity(maxHist, rateHist))

	return sanitizeNumerics(NormalizeValue(out)).(map[string]any), nil
}

// mergePriceStatus fills the quote-level fields: last price, previous
// close, and the day-over-day performance.
func (u *indicatorsUsecase) mergePriceStatus(out entity.IndicatorResult, quote *entity.Quote, hist entity.PriceSeries) {
	price := quote.LastPrice
	if price == nil && len(hist) > 0 {
		price = &hist[len(hist)-1].Close
	}
	eve := quote.PreviousClose
	if eve == nil && len(hist) >= 2 {
		eve = &hist[len(hist)-2].Close
	}

	out["Price"] = round2(price)
	out["Ticker eve price"] = round2(eve)
	out["Ticker performance"] = nil
	if price != nil && eve != nil && *eve != 0 {
		perf := (*price - *eve) / *eve * 100
		out["Ticker performance"] = round2(&perf)
	}
}

// mergeFundamentals fetches the six statements and the dividend history,
// then fills every fundamental-derived metric. All statement fetch
// failures degrade to absent data.
func (u *indicatorsUsecase) mergeFundamentals(ctx context.Context, out entity.IndicatorResult, ticker string, quote *entity.Quote, hist entity.PriceSeries) {
	stmt := func(kind entity.StatementKind) *entity.FundamentalStatement {
		s, err := u.market.FetchFundamentals(ctx, ticker, kind)
		if err != nil {
			slog.Debug("fundamental statement unavailable", "ticker", ticker, "kind", kind, "error", err)
			return nil
		}
		return s
	}
	incQ := stmt(entity.QuarterlyIncome)
	incA := stmt(entity.AnnualIncome)
	bsQ := stmt(entity.QuarterlyBalanceSheet)
	bsA := stmt(entity.AnnualBalanceSheet)
	cfQ := stmt(entity.QuarterlyCashFlow)
	cfA := stmt(entity.AnnualCashFlow)

	price := quote.LastPrice
	if price == nil && len(hist) > 0 {
		price = &hist[len(hist)-1].Close
	}

	// Income-statement line items.
	var eps *float64
	if v, ok := incA.Latest("Diluted EPS"); ok {
		eps = &v
	}
	out["eps"] = ptrVal(eps)
	out["ebitda"] = nil
	if v, ok := incA.Latest("EBITDA"); ok {
		out["ebitda"] = v
	} else if quote.EBITDA != nil {
		out["ebitda"] = *quote.EBITDA
	}
	out["price earning ratio"] = nil
	if price != nil && eps != nil && *eps != 0 {
		per := *price / *eps
		out["price earning ratio"] = round2(&per)
	}
	out["price to book ratio"] = nil
	if price != nil && quote.BookValue != nil && *quote.BookValue != 0 {
		pb := *price / *quote.BookValue
		out["price to book ratio"] = round2(&pb)
	}

	// Dividends.
	var divTTM float64 = math.NaN()
	if div, err := u.market.FetchDividends(ctx, ticker); err == nil {
		divTTM = trailing12MDividend(div)
	} else {
		slog.Debug("dividend history unavailable", "ticker", ticker, "error", err)
	}
	var dividendYield *float64
	if price != nil {
		dividendYield = safeRatio(divTTM, *price)
	}
	out["dividend yield"] = ptrVal(dividendYield)

	// TTM aggregates with the uniform annual fallback.
	fcfTTM := ttmWithAnnualFallback(cfQ, cfA, "Free Cash Flow")
	niTTM := ttmWithAnnualFallback(incQ, incA, "Net Income")
	out["financial cash flow"] = naNil(fcfTTM)

	// Latest equity: annual balance sheet first, quarterly fallback.
	equity := math.NaN()
	if v, ok := bsA.Latest("Stockholders Equity"); ok {
		equity = v
	} else if v, ok := bsQ.Latest("Stockholders Equity"); ok {
		equity = v
	}

	roe := safeRatio(niTTM, equity)
	out["roe"] = nil
	if roe != nil {
		pct := *roe * 100
		out["roe"] = round2(&pct)
	}

	// Price to cash flow per share.
	out["Price to Cash Flow Ratio"] = nil
	if price != nil && quote.SharesOutstanding != nil && *quote.SharesOutstanding > 0 && !math.IsNaN(fcfTTM) {
		if perShare := fcfTTM / *quote.SharesOutstanding; perShare != 0 {
			out["Price to Cash Flow Ratio"] = *price / perShare
		}
	}

	// Yields.
	ey := earningsYield(quote)
	out["earning yield"] = nil
	if ey != nil {
		pct := *ey * 100
		out["earning yield"] = round2(&pct)
	}
	var fcfYield *float64
	if quote.MarketCap != nil && *quote.MarketCap > 0 {
		fcfYield = safeRatio(fcfTTM, *quote.MarketCap)
	}
	out["financial cash flow yield"] = ptrVal(fcfYield)

	// Duration proxies from the sustainable-growth estimate.
	g := estimateSustainableGrowth(roe, quote.PayoutRatio)
	out["duration dividends"] = equityDurationProxy(dividendYield, g)
	out["duration financial cash flow"] = equityDurationProxy(fcfYield, g)
	out["duration earning"] = equityDurationProxy(ey, g)
}

// mergeMarketStats copies the estimator output into the result map under
// the canonical metric names.
func mergeMarketStats(out entity.IndicatorResult, st *marketStats) {
	out["ticker total return"] = round4f(st.TotalReturn)
	out["market return"] = round4f(st.BenchTotalReturn)
	out["cagr"] = nil
	if st.CAGR != nil {
		out["cagr"] = round4f(*st.CAGR)
	}
	out["rolling volatility"] = naNil(st.RollingVolatility)
	out["annual volatility"] = naNil(st.AnnualVolatility)
	out["daily volatility"] = naNil(st.DailyVolatility)
	out["drawdown"] = naNil(st.Drawdown)
	out["var95"] = naNil(st.VaR)
	out["cvar95"] = naNil(st.CVaR)
	out["rsi"] = naNil(st.RSI)

	out["daily alpha"] = ptrVal(st.DailyAlpha)
	out["ticker beta 1year"] = ptrVal(st.Beta)
	out["R²"] = ptrVal(st.R2)
	out["alpha 1year percent"] = ptrVal(st.AnnualAlphaPct)
	out["tracking error"] = ptrVal(st.TrackingError)
	out["information ratio"] = ptrVal(st.InformationRatio)
	out["treynor"] = ptrVal(st.Treynor)
	out["sharpe ratio"] = ptrVal(st.Sharpe)
	out["sortino"] = ptrVal(st.Sortino)
	out["expected return"] = nil
	if st.ExpectedCAPM != nil {
		out["expected return"] = round4f(*st.ExpectedCAPM)
	}
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func ptrVal(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func naNil(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func round2(v *float64) any {
	if v == nil || math.IsNaN(*v) {
		return nil
	}
	return math.Round(*v*100) / 100
}

func round4f(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return math.Round(v*10000) / 10000
}
