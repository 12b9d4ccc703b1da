// Package entity defines the domain models for the indicators feature.
package entity

import "time"

// PricePoint is a single daily observation of a price series.
type PricePoint struct {
	Date  time.Time // Trading day (midnight, provider timezone collapsed to UTC)
	Open  float64
	High  float64
	Low   float64
	Close float64
	// AdjClose is only populated for max-history series.
	AdjClose float64
	Volume   int64
}

// PriceSeries is an ordered sequence of daily price points, ascending by
// date. Missing trading days are simply absent; no gap filling is applied.
type PriceSeries []PricePoint

// Closes returns the close column of the series.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// Dates returns the date column of the series.
func (s PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Date
	}
	return out
}

// Tail returns the last n points, or the whole series if it is shorter.
func (s PriceSeries) Tail(n int) PriceSeries {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// DividendPayment is a single cash dividend payment.
type DividendPayment struct {
	Date   time.Time
	Amount float64
}

// DividendSeries is an ordered sequence of dividend payments, ascending by date.
type DividendSeries []DividendPayment
