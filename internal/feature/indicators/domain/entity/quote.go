package entity

// Quote is the provider's current snapshot for a ticker, combining the
// fast price fields with the slower profile/valuation metadata the
// assembler needs. Optional fields are pointers; absence is a valid state.
type Quote struct {
	Ticker        string
	LongName      string
	Exchange      string // Full exchange name as reported by the provider (e.g. "NasdaqGS")
	Sector        string
	Industry      string
	QuoteType     string // "EQUITY", "ETF", "INDEX", ...
	LastPrice     *float64
	PreviousClose *float64

	// Valuation metadata, keyed to the provider's vocabulary.
	TrailingPE        *float64
	TrailingEPS       *float64
	EBITDA            *float64
	PayoutRatio       *float64
	SharesOutstanding *float64
	MarketCap         *float64
	BookValue         *float64
}
