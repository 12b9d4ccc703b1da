// Package dto defines data transfer objects for the Yahoo Finance API
// responses.
package dto

// ChartResponse represents the JSON response from the v8 chart endpoint.
// Quote columns may carry nulls on holidays; they decode as nil.
type ChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				ExchangeName       string   `json:"exchangeName"`
				FullExchangeName   string   `json:"fullExchangeName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreviousClose      *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
			Events *struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *APIError `json:"error"`
	} `json:"chart"`
}

// APIError is the error envelope shared by the Yahoo endpoints.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
