// Package di provides dependency injection factories for creating application components.
package di

import (
	"stock_analysis/internal/feature/indicators/adapters/yahoo"
	"stock_analysis/internal/platform/httpclient"
)

// NewMarketGateway creates a fully configured Yahoo Finance client with
// its HTTP client, rate limiter, memoization and disk snapshot store.
func NewMarketGateway() (*yahoo.Client, error) {
	cfg := yahoo.LoadConfig()
	return yahoo.NewClient(cfg, httpclient.New(cfg.Timeout))
}
