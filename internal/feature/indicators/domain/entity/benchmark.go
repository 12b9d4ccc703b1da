package entity

// BenchmarkMapping links a ticker to its most relevant market index and,
// when one trades, a proxy ETF. Mappings come from static reference
// tables initialized once at startup and never mutated.
type BenchmarkMapping struct {
	Index string  // Index symbol (e.g. "^GSPC")
	ETF   *string // Proxy ETF symbol, nil when no liquid proxy exists
}

// IndicatorResult is the final flat mapping of metric name to value,
// produced once per request and immediately serialized. Values are
// float64, string sentinels ("Infinity"/"-Infinity"), plain strings, or
// nil for metrics whose inputs were unavailable.
type IndicatorResult map[string]any
