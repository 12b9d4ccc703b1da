package usecase

import (
	"math"

	"stock_analysis/internal/feature/indicators/domain/entity"
)

// Fundamental aggregation. Every function here degrades to NaN or nil on
// missing inputs; nothing in this file may panic or return an error. A
// user with incomplete fundamentals still gets price-based risk metrics.

// ttmSum sums the 4 most recent quarterly values for a line item.
// Statements with fewer than 4 columns sum only what is available.
// Returns NaN when the statement is empty or lacks the item.
func ttmSum(stmt *entity.FundamentalStatement, lineItem string) float64 {
	vs, ok := stmt.Line(lineItem)
	if !ok {
		return math.NaN()
	}
	n := len(vs)
	if n > 4 {
		n = 4
	}
	var sum float64
	for _, v := range vs[:n] {
		sum += v
	}
	return sum
}

// ttmWithAnnualFallback applies the uniform fallback rule: when the
// quarterly-derived TTM value is NaN, substitute the latest annual figure
// for the same line item; otherwise leave as NaN.
func ttmWithAnnualFallback(quarterly, annual *entity.FundamentalStatement, lineItem string) float64 {
	v := ttmSum(quarterly, lineItem)
	if !math.IsNaN(v) {
		return v
	}
	if latest, ok := annual.Latest(lineItem); ok {
		return latest
	}
	return math.NaN()
}

// trailing12MDividend sums the payments within 365 days of the series'
// most recent payment date. NaN for an empty series.
func trailing12MDividend(div entity.DividendSeries) float64 {
	if len(div) == 0 {
		return math.NaN()
	}
	last := div[len(div)-1].Date
	cutoff := last.AddDate(0, 0, -365)
	var sum float64
	for _, d := range div {
		if d.Date.After(cutoff) {
			sum += d.Amount
		}
	}
	return sum
}

// safeRatio divides a by b, short-circuiting to nil when either operand
// is missing/NaN or the denominator is zero. Division by zero must never
// surface as Inf here.
func safeRatio(a, b float64) *float64 {
	if math.IsNaN(a) || math.IsNaN(b) || b == 0 {
		return nil
	}
	v := a / b
	return &v
}

// earningsYield derives the earnings yield as 1/trailing P/E when the
// provider reports a positive P/E, falling back to trailing EPS / price.
// nil when neither path has data.
func earningsYield(q *entity.Quote) *float64 {
	if q.TrailingPE != nil && *q.TrailingPE > 0 {
		v := 1.0 / *q.TrailingPE
		return &v
	}
	if q.TrailingEPS != nil && q.LastPrice != nil && *q.LastPrice != 0 {
		v := *q.TrailingEPS / *q.LastPrice
		return &v
	}
	return nil
}

// estimateSustainableGrowth returns the sustainable-growth proxy
// g = ROE * (1 - payout ratio), NaN when either operand is missing.
func estimateSustainableGrowth(roe *float64, payoutRatio *float64) float64 {
	if roe == nil || payoutRatio == nil || math.IsNaN(*roe) || math.IsNaN(*payoutRatio) {
		return math.NaN()
	}
	return *roe * (1 - *payoutRatio)
}

// equityDurationProxy approximates equity duration under perpetuity
// growth: 1/(yield - g) when yield > g. The yield <= g boundary maps to
// the +Inf sentinel, not an error; a missing input maps to nil.
func equityDurationProxy(yield *float64, g float64) any {
	if yield == nil || math.IsNaN(*yield) || math.IsNaN(g) {
		return nil
	}
	if *yield <= g {
		return math.Inf(1)
	}
	return 1.0 / (*yield - g)
}
