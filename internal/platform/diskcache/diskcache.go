// Package diskcache persists per-ticker daily price history as CSV
// snapshots with a freshness window, so repeated indicator requests do
// not hammer the provider across process restarts.
package diskcache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"stock_analysis/internal/feature/indicators/domain/entity"
)

// DefaultTTL is the uniform freshness window for every snapshot. One TTL
// for both the 1-year and the max-history variants.
const DefaultTTL = 24 * time.Hour

// ErrStale is returned when a snapshot exists but its age exceeds the TTL.
var ErrStale = errors.New("snapshot is stale")

// ErrMiss is returned when no snapshot exists for the key.
var ErrMiss = errors.New("snapshot not found")

// Store is a per-ticker snapshot store rooted at a single directory.
// Writes are wholesale overwrites via write-temp-then-rename, so a crash
// can never leave a partially written file behind. Concurrent refreshes
// for the same ticker may race and redundantly re-fetch; last writer
// wins, which is tolerated since each write is a full snapshot.
type Store struct {
	dir string
	ttl time.Duration
}

// NewStore creates a snapshot store under dir, creating it if needed.
// A non-positive ttl defaults to DefaultTTL.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{dir: dir, ttl: ttl}, nil
}

// path returns the snapshot file for a ticker and range, e.g.
// "AAPL_1y.csv". The ticker is upper-cased so lookups are case-stable.
func (s *Store) path(ticker, rng string) string {
	name := fmt.Sprintf("%s_%s.csv", strings.ToUpper(ticker), rng)
	// Dots in exchange-qualified tickers ("AIR.PA") are fine in file
	// names; path separators are not.
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, name)
}

// Load reads a fresh snapshot. ErrMiss when absent, ErrStale when older
// than the TTL.
func (s *Store) Load(ticker, rng string) (entity.PriceSeries, error) {
	p := s.path(ticker, rng)
	info, err := os.Stat(p)
	if err != nil {
		return nil, ErrMiss
	}
	if time.Since(info.ModTime()) >= s.ttl {
		return nil, ErrStale
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", p, err)
	}
	if len(rows) < 1 {
		return entity.PriceSeries{}, nil
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}

	series := make(entity.PriceSeries, 0, len(rows)-1)
	for _, row := range rows[1:] {
		pt, err := parseRow(col, row)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot %s: %w", p, err)
		}
		series = append(series, pt)
	}
	return series, nil
}

// Save overwrites the snapshot wholesale. The max-history variant also
// carries the Adj Close column.
func (s *Store) Save(ticker, rng string, series entity.PriceSeries) error {
	withAdj := rng == "max"
	header := []string{"Date", "Open", "High", "Low", "Close", "Volume"}
	if withAdj {
		header = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}
	}

	tmp, err := os.CreateTemp(s.dir, "snapshot-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	for _, p := range series {
		row := []string{
			p.Date.Format("2006-01-02"),
			formatFloat(p.Open),
			formatFloat(p.High),
			formatFloat(p.Low),
			formatFloat(p.Close),
		}
		if withAdj {
			row = append(row, formatFloat(p.AdjClose))
		}
		row = append(row, strconv.FormatInt(p.Volume, 10))
		if err := w.Write(row); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(ticker, rng))
}

func parseRow(col map[string]int, row []string) (entity.PricePoint, error) {
	get := func(name string) (float64, error) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return 0, nil
		}
		return strconv.ParseFloat(row[i], 64)
	}

	var pt entity.PricePoint
	di, ok := col["Date"]
	if !ok || di >= len(row) {
		return pt, errors.New("missing Date column")
	}
	d, err := time.Parse("2006-01-02", row[di])
	if err != nil {
		return pt, err
	}
	pt.Date = d

	if pt.Open, err = get("Open"); err != nil {
		return pt, err
	}
	if pt.High, err = get("High"); err != nil {
		return pt, err
	}
	if pt.Low, err = get("Low"); err != nil {
		return pt, err
	}
	if pt.Close, err = get("Close"); err != nil {
		return pt, err
	}
	if pt.AdjClose, err = get("Adj Close"); err != nil {
		return pt, err
	}
	if vi, ok := col["Volume"]; ok && vi < len(row) {
		if pt.Volume, err = strconv.ParseInt(row[vi], 10, 64); err != nil {
			return pt, err
		}
	}
	return pt, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
