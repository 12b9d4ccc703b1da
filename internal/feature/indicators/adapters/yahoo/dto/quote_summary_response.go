package dto

// RawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number envelope.
// Only the raw field matters; absent values decode to a nil Raw.
type RawValue struct {
	Raw *float64 `json:"raw"`
}

// QuoteSummaryResponse represents the v10 quoteSummary endpoint response
// for the price, summaryDetail, summaryProfile, defaultKeyStatistics and
// financialData modules.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName          string   `json:"shortName"`
				LongName           string   `json:"longName"`
				ExchangeName       string   `json:"exchangeName"`
				QuoteType          string   `json:"quoteType"`
				RegularMarketPrice RawValue `json:"regularMarketPrice"`
				PreviousClose      RawValue `json:"regularMarketPreviousClose"`
				MarketCap          RawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				TrailingPE    RawValue `json:"trailingPE"`
				PayoutRatio   RawValue `json:"payoutRatio"`
				PreviousClose RawValue `json:"previousClose"`
			} `json:"summaryDetail"`
			SummaryProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
			DefaultKeyStatistics *struct {
				TrailingEPS       RawValue `json:"trailingEps"`
				SharesOutstanding RawValue `json:"sharesOutstanding"`
				BookValue         RawValue `json:"bookValue"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				EBITDA RawValue `json:"ebitda"`
			} `json:"financialData"`
		} `json:"result"`
		Error *APIError `json:"error"`
	} `json:"quoteSummary"`
}
