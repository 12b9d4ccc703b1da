package usecase

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"stock_analysis/internal/feature/indicators/domain"
	"stock_analysis/internal/feature/indicators/domain/entity"
)

const (
	// tradingDays is the annualization constant (trading days per year).
	tradingDays = 252

	// minRegressionObs is the minimum number of overlapping observations
	// for regression-based metrics.
	minRegressionObs = 60
)

// returnPoint is a dated daily return observation.
type returnPoint struct {
	Date   time.Time
	Return float64
}

// dailyReturns computes day-over-day simple returns. The result has one
// observation per point after the first.
func dailyReturns(s entity.PriceSeries) []returnPoint {
	if len(s) < 2 {
		return nil
	}
	out := make([]returnPoint, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev == 0 {
			out = append(out, returnPoint{Date: s[i].Date, Return: math.NaN()})
			continue
		}
		out = append(out, returnPoint{Date: s[i].Date, Return: s[i].Close/prev - 1})
	}
	return out
}

// logReturns computes day-over-day log returns.
func logReturns(s entity.PriceSeries) []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		if s[i-1].Close <= 0 || s[i].Close <= 0 {
			continue
		}
		out = append(out, math.Log(s[i].Close/s[i-1].Close))
	}
	return out
}

// alignReturns restricts two dated return series to the intersection of
// their dates, dropping NaN observations. Only the intersection feeds
// regression/covariance statistics; single-series statistics use the full
// series unfiltered.
func alignReturns(a, b []returnPoint) (x, y []float64) {
	byDate := make(map[time.Time]float64, len(b))
	for _, p := range b {
		if !math.IsNaN(p.Return) {
			byDate[p.Date] = p.Return
		}
	}
	for _, p := range a {
		if math.IsNaN(p.Return) {
			continue
		}
		if bv, ok := byDate[p.Date]; ok {
			y = append(y, p.Return)
			x = append(x, bv)
		}
	}
	return x, y
}

// values extracts the return column, dropping NaN observations.
func values(ps []returnPoint) []float64 {
	out := make([]float64, 0, len(ps))
	for _, p := range ps {
		if !math.IsNaN(p.Return) {
			out = append(out, p.Return)
		}
	}
	return out
}

// percentile computes the p-th (0..1) percentile with linear
// interpolation between order statistics.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// rollingVolatility returns the most recent value of the window-day
// rolling standard deviation of daily returns, annualized by sqrt(252),
// as a percentage. NaN when there are fewer than window observations.
func rollingVolatility(returns []float64, window int) float64 {
	if window <= 1 || len(returns) < window {
		return math.NaN()
	}
	tail := returns[len(returns)-window:]
	return stat.StdDev(tail, nil) * math.Sqrt(tradingDays) * 100
}

// maxDrawdown reports the most negative peak-to-trough decline over the
// trailing `window` observations, as a percentage (always <= 0).
func maxDrawdown(s entity.PriceSeries, window int) float64 {
	px := s.Tail(window)
	if len(px) == 0 {
		return math.NaN()
	}
	runMax := math.Inf(-1)
	minDD := math.Inf(1)
	for _, p := range px {
		if p.Close > runMax {
			runMax = p.Close
		}
		dd := p.Close/runMax - 1
		if dd < minDD {
			minDD = dd
		}
	}
	return minDD * 100
}

// valueAtRisk returns VaR(p) and CVaR(p) of the daily return
// distribution, both as percentages. CVaR averages all returns at or
// below the VaR threshold, hence is always the more extreme of the two.
func valueAtRisk(returns []float64, p float64) (varPct, cvarPct float64) {
	if len(returns) == 0 {
		return math.NaN(), math.NaN()
	}
	threshold := percentile(returns, p)
	var sum float64
	var n int
	for _, r := range returns {
		if r <= threshold {
			sum += r
			n++
		}
	}
	cvar := math.NaN()
	if n > 0 {
		cvar = sum / float64(n)
	}
	return threshold * 100, cvar * 100
}

// relativeStrength computes the exponentially-weighted RSI with smoothing
// factor 1/n. An average loss of exactly zero means the ratio is
// unbounded, so the RSI saturates at 100.
func relativeStrength(s entity.PriceSeries, n int) float64 {
	closes := s.Closes()
	if n <= 0 || len(closes) < 2 {
		return math.NaN()
	}
	alpha := 1.0 / float64(n)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		if i == 1 {
			// Recursion seeds with the first observation.
			avgGain, avgLoss = gain, loss
			continue
		}
		avgGain = alpha*gain + (1-alpha)*avgGain
		avgLoss = alpha*loss + (1-alpha)*avgLoss
	}
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// olsFit runs an ordinary-least-squares fit of y on x with an intercept
// term. Degenerate inputs (fewer than 2 observations, zero variance in x)
// signal ErrInsufficientData rather than propagating NaN.
func olsFit(x, y []float64) (alpha, beta, r2 float64, err error) {
	if len(x) < 2 || len(x) != len(y) {
		return 0, 0, 0, domain.ErrInsufficientData
	}
	if stat.Variance(x, nil) == 0 {
		return 0, 0, 0, domain.ErrInsufficientData
	}
	alpha, beta = stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return 0, 0, 0, domain.ErrInsufficientData
	}
	r2 = stat.RSquared(x, y, nil, alpha, beta)
	return alpha, beta, r2, nil
}

// annualizeMean compounds a mean daily return over one trading year.
func annualizeMean(dailyMean float64) float64 {
	return math.Pow(1+dailyMean, tradingDays) - 1
}

// marketStats carries the regression and risk metrics the assembler
// merges into the result map. Pointer fields are nil when their inputs
// were unavailable or degenerate.
type marketStats struct {
	TotalReturn       float64
	BenchTotalReturn  float64
	CAGR              *float64
	RollingVolatility float64
	DailyVolatility   float64
	AnnualVolatility  float64
	Drawdown          float64
	VaR               float64
	CVaR              float64
	RSI               float64

	DailyAlpha       *float64
	Beta             *float64
	R2               *float64
	AnnualAlphaPct   *float64
	TrackingError    *float64
	InformationRatio *float64
	Treynor          *float64
	Sharpe           *float64
	Sortino          *float64
	ExpectedCAPM     *float64
}

// estimateMarketStats computes every price-based statistic for a ticker
// against its benchmark over a one-year daily window.
//
// At least 2 points are required for any return-based statistic. The
// regression-derived fields additionally require minRegressionObs
// overlapping observations and stay nil below it.
func estimateMarketStats(ticker, bench entity.PriceSeries, p float64, n int, rfAnnual float64) (*marketStats, error) {
	if len(ticker) < 2 {
		return nil, domain.ErrInsufficientHistory
	}

	tickerRet := dailyReturns(ticker)
	tickerVals := values(tickerRet)

	st := &marketStats{
		TotalReturn:       ticker[len(ticker)-1].Close/ticker[0].Close - 1,
		RollingVolatility: rollingVolatility(tickerVals, 20),
		Drawdown:          maxDrawdown(ticker, tradingDays),
		RSI:               relativeStrength(ticker, n),
	}
	st.VaR, st.CVaR = valueAtRisk(tickerVals, p)

	// CAGR over the elapsed calendar span.
	years := ticker[len(ticker)-1].Date.Sub(ticker[0].Date).Hours() / 24 / 365.25
	if years > 0 {
		cagr := math.Pow(1+st.TotalReturn, 1/years) - 1
		st.CAGR = &cagr
	}

	// Log-return volatility (fraction, not percent).
	lr := logReturns(ticker)
	if len(lr) >= 2 {
		st.DailyVolatility = stat.StdDev(lr, nil)
		st.AnnualVolatility = st.DailyVolatility * math.Sqrt(tradingDays)
	} else {
		st.DailyVolatility = math.NaN()
		st.AnnualVolatility = math.NaN()
	}

	if len(bench) >= 2 {
		st.BenchTotalReturn = bench[len(bench)-1].Close/bench[0].Close - 1
	} else {
		st.BenchTotalReturn = math.NaN()
	}

	// Everything below needs the intersected return range.
	benchRet := dailyReturns(bench)
	x, y := alignReturns(tickerRet, benchRet)
	if len(x) < 2 {
		return st, nil
	}

	// Regression metrics are only trustworthy with a full minimum of
	// overlapping observations; below it they stay nil while the
	// common-window statistics are still reported.
	if len(x) >= minRegressionObs {
		dailyAlpha, beta, r2, err := olsFit(x, y)
		if err == nil {
			st.DailyAlpha = &dailyAlpha
			st.Beta = &beta
			st.R2 = &r2

			annualAlpha := (math.Pow(1+dailyAlpha, tradingDays) - 1) * 100
			st.AnnualAlphaPct = &annualAlpha

			if beta != 0 {
				erAnn := annualizeMean(stat.Mean(y, nil))
				treynor := (erAnn - rfAnnual) / beta
				st.Treynor = &treynor
			}

			benchAnnual := annualizeMean(stat.Mean(x, nil))
			capm := rfAnnual + beta*(benchAnnual-rfAnnual)
			st.ExpectedCAPM = &capm
		}
	}

	// Tracking error and information ratio.
	active := make([]float64, len(x))
	for i := range x {
		active[i] = y[i] - x[i]
	}
	te := stat.StdDev(active, nil) * math.Sqrt(tradingDays) * 100
	st.TrackingError = &te
	if te != 0 {
		relAnn := annualizeMean(stat.Mean(y, nil)) - annualizeMean(stat.Mean(x, nil))
		ir := relAnn / (te / 100)
		st.InformationRatio = &ir
	}

	// Sharpe / Sortino on the benchmark excess series. This matches the
	// observed upstream semantics; see DESIGN.md before changing.
	rfDaily := math.Pow(1+rfAnnual, 1.0/tradingDays) - 1
	excess := make([]float64, len(x))
	for i := range x {
		excess[i] = x[i] - rfDaily
	}
	excessMean := stat.Mean(excess, nil)
	if sd := stat.StdDev(excess, nil); sd != 0 && !math.IsNaN(sd) {
		sharpe := excessMean / sd * math.Sqrt(tradingDays)
		st.Sharpe = &sharpe
	}
	var sumSqNeg float64
	for _, e := range excess {
		if e < 0 {
			sumSqNeg += e * e
		}
	}
	if semidev := math.Sqrt(sumSqNeg / float64(len(excess))); semidev != 0 {
		sortino := excessMean * math.Sqrt(tradingDays) / semidev
		st.Sortino = &sortino
	}

	return st, nil
}

// rateSensitivity regresses the ticker's long-window price level on the
// first difference of a rate-proxy series (the benchmark's price level
// divided by 100, differenced) over the intersection of their full
// histories. Requires at least minRegressionObs overlapping observations,
// otherwise returns nil.
func rateSensitivity(ticker, rateProxy entity.PriceSeries) *float64 {
	if len(rateProxy) < 2 {
		return nil
	}
	dy := make([]returnPoint, 0, len(rateProxy)-1)
	for i := 1; i < len(rateProxy); i++ {
		dy = append(dy, returnPoint{
			Date:   rateProxy[i].Date,
			Return: (rateProxy[i].Close - rateProxy[i-1].Close) / 100.0,
		})
	}
	level := make([]returnPoint, len(ticker))
	for i, p := range ticker {
		level[i] = returnPoint{Date: p.Date, Return: p.Close}
	}
	x, y := alignReturns(level, dy)
	if len(x) < minRegressionObs {
		return nil
	}
	_, beta, _, err := olsFit(x, y)
	if err != nil {
		return nil
	}
	return &beta
}
