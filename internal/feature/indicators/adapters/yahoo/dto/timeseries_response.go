package dto

import "encoding/json"

// TimeSeriesResponse represents the fundamentals-timeseries endpoint
// response. Each result object carries its values under a key named
// after the requested type (e.g. "quarterlyNetIncome"), so the rows are
// kept raw and extracted by the caller.
type TimeSeriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *APIError         `json:"error"`
	} `json:"timeseries"`
}

// TimeSeriesMeta is the meta block of one timeseries result.
type TimeSeriesMeta struct {
	Type []string `json:"type"`
}

// TimeSeriesRow is one reported period value of a fundamental line item.
type TimeSeriesRow struct {
	AsOfDate      string   `json:"asOfDate"`
	ReportedValue RawValue `json:"reportedValue"`
}
