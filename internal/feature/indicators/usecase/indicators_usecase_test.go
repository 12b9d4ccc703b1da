package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"stock_analysis/internal/feature/indicators/domain"
	"stock_analysis/internal/feature/indicators/domain/entity"
)

// mockMarketDataRepository is a mock implementation of the
// MarketDataRepository interface.
type mockMarketDataRepository struct {
	FetchQuoteFunc        func(ctx context.Context, ticker string) (*entity.Quote, error)
	FetchHistoryFunc      func(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error)
	FetchDividendsFunc    func(ctx context.Context, ticker string) (entity.DividendSeries, error)
	FetchFundamentalsFunc func(ctx context.Context, ticker string, kind entity.StatementKind) (*entity.FundamentalStatement, error)
}

func (m *mockMarketDataRepository) FetchQuote(ctx context.Context, ticker string) (*entity.Quote, error) {
	if m.FetchQuoteFunc != nil {
		return m.FetchQuoteFunc(ctx, ticker)
	}
	return &entity.Quote{Ticker: ticker}, nil
}

func (m *mockMarketDataRepository) FetchHistory(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error) {
	if m.FetchHistoryFunc != nil {
		return m.FetchHistoryFunc(ctx, ticker, rng, interval)
	}
	return nil, nil
}

func (m *mockMarketDataRepository) FetchDividends(ctx context.Context, ticker string) (entity.DividendSeries, error) {
	if m.FetchDividendsFunc != nil {
		return m.FetchDividendsFunc(ctx, ticker)
	}
	return nil, errors.New("no dividend data")
}

func (m *mockMarketDataRepository) FetchFundamentals(ctx context.Context, ticker string, kind entity.StatementKind) (*entity.FundamentalStatement, error) {
	if m.FetchFundamentalsFunc != nil {
		return m.FetchFundamentalsFunc(ctx, ticker, kind)
	}
	return nil, errors.New("no fundamental data")
}

// syntheticSeries builds a plausible daily series with mild oscillation.
func syntheticSeries(n int, start float64) entity.PriceSeries {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := make(entity.PriceSeries, n)
	px := start
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			px *= 1.008
		} else {
			px *= 0.997
		}
		s[i] = entity.PricePoint{Date: base.AddDate(0, 0, i), Close: px}
	}
	return s
}

func TestIndicatorsUsecase_Compute(t *testing.T) {
	t.Run("empty ticker", func(t *testing.T) {
		uc := NewIndicatorsUsecase(&mockMarketDataRepository{})
		_, err := uc.Compute(context.Background(), "  ", 0.05, 14, 0.02)
		if !errors.Is(err, domain.ErrTickerNotFound) {
			t.Errorf("expected ErrTickerNotFound, got %v", err)
		}
	})

	t.Run("empty history means unknown ticker", func(t *testing.T) {
		mock := &mockMarketDataRepository{
			FetchHistoryFunc: func(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error) {
				return entity.PriceSeries{}, nil
			},
		}
		uc := NewIndicatorsUsecase(mock)
		_, err := uc.Compute(context.Background(), "NOPE", 0.05, 14, 0.02)
		if !errors.Is(err, domain.ErrTickerNotFound) {
			t.Errorf("expected ErrTickerNotFound, got %v", err)
		}
	})

	t.Run("provider outage propagates", func(t *testing.T) {
		mock := &mockMarketDataRepository{
			FetchHistoryFunc: func(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error) {
				return nil, domain.ErrDataUnavailable
			},
		}
		uc := NewIndicatorsUsecase(mock)
		_, err := uc.Compute(context.Background(), "AAPL", 0.05, 14, 0.02)
		if !errors.Is(err, domain.ErrDataUnavailable) {
			t.Errorf("expected ErrDataUnavailable, got %v", err)
		}
	})

	t.Run("quote failure degrades to price-only metrics", func(t *testing.T) {
		hist := syntheticSeries(260, 100)
		mock := &mockMarketDataRepository{
			FetchQuoteFunc: func(ctx context.Context, ticker string) (*entity.Quote, error) {
				return nil, errors.New("metadata endpoint down")
			},
			FetchHistoryFunc: func(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error) {
				if rng == "max" {
					return nil, errors.New("no long history")
				}
				if ticker == "AAPL" {
					return hist, nil
				}
				return syntheticSeries(260, 4000), nil
			},
		}
		uc := NewIndicatorsUsecase(mock)
		out, err := uc.Compute(context.Background(), "aapl", 0.05, 14, 0.02)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out["Full Name"] != nil {
			t.Errorf("expected nil Full Name without metadata, got %v", out["Full Name"])
		}
		// メタデータが無いのでベンチマークはS&P 500にフォールバック
		if out["market"] != "^GSPC" {
			t.Errorf("expected default benchmark ^GSPC, got %v", out["market"])
		}
		if out["Price"] == nil || out["ticker total return"] == nil {
			t.Error("price metrics must still be computed from history")
		}
		if out["ticker beta 1year"] == nil {
			t.Error("expected regression metrics against the benchmark history")
		}
		if out["market sensibility"] != nil {
			t.Errorf("expected nil sensitivity without long histories, got %v", out["market sensibility"])
		}
	})

	t.Run("eps comes from the annual income statement", func(t *testing.T) {
		hist := syntheticSeries(260, 100)
		mock := &mockMarketDataRepository{
			FetchHistoryFunc: func(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error) {
				if rng == "max" {
					return nil, errors.New("no long history")
				}
				return hist, nil
			},
			FetchFundamentalsFunc: func(ctx context.Context, ticker string, kind entity.StatementKind) (*entity.FundamentalStatement, error) {
				if kind != entity.AnnualIncome {
					return &entity.FundamentalStatement{Kind: kind}, nil
				}
				return &entity.FundamentalStatement{
					Kind:  kind,
					Items: map[string][]float64{"Diluted EPS": {6.5, 5.1}},
				}, nil
			},
		}
		uc := NewIndicatorsUsecase(mock)
		out, err := uc.Compute(context.Background(), "AAPL", 0.05, 14, 0.02)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out["eps"] != 6.5 {
			t.Errorf("expected eps 6.5 from the latest annual period, got %v", out["eps"])
		}

		// 損益計算書が無ければepsは欠損のまま
		mock.FetchFundamentalsFunc = nil
		out, err = uc.Compute(context.Background(), "AAPL", 0.05, 14, 0.02)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out["eps"] != nil {
			t.Errorf("expected nil eps without income statements, got %v", out["eps"])
		}
	})

	t.Run("result is JSON-safe", func(t *testing.T) {
		hist := syntheticSeries(260, 100)
		mock := &mockMarketDataRepository{
			FetchHistoryFunc: func(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error) {
				if rng == "max" {
					return nil, errors.New("no long history")
				}
				return hist, nil
			},
		}
		uc := NewIndicatorsUsecase(mock)
		out, err := uc.Compute(context.Background(), "AAPL", 0.05, 14, 0.02)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var walk func(v any)
		walk = func(v any) {
			switch x := v.(type) {
			case float64:
				if math.IsNaN(x) || math.IsInf(x, 0) {
					t.Errorf("non-finite float leaked into the result: %v", x)
				}
			case map[string]any:
				for _, vv := range x {
					walk(vv)
				}
			case []any:
				for _, vv := range x {
					walk(vv)
				}
			}
		}
		walk(map[string]any(out))
	})

	t.Run("short history", func(t *testing.T) {
		mock := &mockMarketDataRepository{
			FetchHistoryFunc: func(ctx context.Context, ticker, rng, interval string) (entity.PriceSeries, error) {
				return syntheticSeries(1, 100), nil
			},
		}
		uc := NewIndicatorsUsecase(mock)
		_, err := uc.Compute(context.Background(), "AAPL", 0.05, 14, 0.02)
		if !errors.Is(err, domain.ErrInsufficientHistory) {
			t.Errorf("expected ErrInsufficientHistory, got %v", err)
		}
	})
}
