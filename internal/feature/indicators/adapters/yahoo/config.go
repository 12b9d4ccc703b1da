// Package yahoo implements the market-data gateway against the public
// Yahoo Finance endpoints (v8 chart, v10 quoteSummary, fundamentals
// timeseries).
package yahoo

import (
	"os"
	"time"
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL  string        // Base URL (e.g. "https://query1.finance.yahoo.com")
	CacheDir string        // Directory for on-disk history snapshots
	CacheTTL time.Duration // Freshness window for disk snapshots
	Timeout  time.Duration // HTTP request timeout
}

// LoadConfig loads the Yahoo client configuration from environment
// variables, with sensible defaults for local runs.
func LoadConfig() Config {
	base := os.Getenv("YAHOO_BASE_URL")
	if base == "" {
		base = "https://query1.finance.yahoo.com"
	}
	dir := os.Getenv("DATA_CACHE_DIR")
	if dir == "" {
		dir = "data_cache"
	}
	return Config{
		BaseURL:  base,
		CacheDir: dir,
		CacheTTL: 24 * time.Hour,
		Timeout:  30 * time.Second,
	}
}
