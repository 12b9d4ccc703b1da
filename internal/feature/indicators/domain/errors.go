// Package domain defines domain-level errors for the indicators feature.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors for indicator computation.
// These represent business-level failures and should be mapped to client
// responses by the transport layer, never swallowed.
var (
	// ErrTickerNotFound indicates the provider has no data at all for the
	// symbol (unknown ticker or wholly empty price history).
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrInsufficientHistory indicates the price series is too short for
	// any return-based statistic.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrInsufficientData indicates too few overlapping observations for a
	// regression statistic.
	ErrInsufficientData = errors.New("insufficient data for regression")

	// ErrDataUnavailable indicates a transient provider failure (network,
	// HTTP error, malformed payload).
	ErrDataUnavailable = errors.New("market data unavailable")
)

// ComputationError wraps an unexpected failure during indicator assembly
// so the cause survives to the diagnostics while the transport layer can
// still distinguish it from a missing ticker.
type ComputationError struct {
	Ticker string
	Err    error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("indicator computation failed for %s: %v", e.Ticker, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
