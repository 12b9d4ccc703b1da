package usecase

import (
	"context"
	"errors"
	"testing"

	indexentity "stock_analysis/internal/feature/indexes/domain/entity"
	indicatorentity "stock_analysis/internal/feature/indicators/domain/entity"
)

// mockIndexRepository is an in-memory implementation of the IndexRepository interface.
type mockIndexRepository struct {
	metrics map[string]*indexentity.IndexMetric
	order   []string

	ListFunc func(ctx context.Context) ([]indexentity.IndexMetric, error)
	SaveFunc func(ctx context.Context, metric *indexentity.IndexMetric) error
}

func newMockIndexRepository() *mockIndexRepository {
	return &mockIndexRepository{metrics: map[string]*indexentity.IndexMetric{}}
}

func (m *mockIndexRepository) List(ctx context.Context) ([]indexentity.IndexMetric, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	out := make([]indexentity.IndexMetric, 0, len(m.order))
	for _, ticker := range m.order {
		out = append(out, *m.metrics[ticker])
	}
	return out, nil
}

func (m *mockIndexRepository) Save(ctx context.Context, metric *indexentity.IndexMetric) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, metric)
	}
	cp := *metric
	m.metrics[metric.Ticker] = &cp
	return nil
}

func (m *mockIndexRepository) Seed(ctx context.Context, metrics []indexentity.IndexMetric) error {
	for _, metric := range metrics {
		if _, ok := m.metrics[metric.Ticker]; ok {
			continue
		}
		cp := metric
		m.metrics[metric.Ticker] = &cp
		m.order = append(m.order, metric.Ticker)
	}
	return nil
}

// mockQuoteFetcher is a mock implementation of the QuoteFetcher interface.
type mockQuoteFetcher struct {
	FetchQuoteFunc func(ctx context.Context, ticker string) (*indicatorentity.Quote, error)
}

func (m *mockQuoteFetcher) FetchQuote(ctx context.Context, ticker string) (*indicatorentity.Quote, error) {
	if m.FetchQuoteFunc != nil {
		return m.FetchQuoteFunc(ctx, ticker)
	}
	return nil, errors.New("not configured")
}

func f(v float64) *float64 { return &v }

func TestIndexesUsecase_List(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		uc := NewIndexesUsecase(newMockIndexRepository(), &mockQuoteFetcher{})
		_, err := uc.List(context.Background())
		if !errors.Is(err, ErrNoIndexData) {
			t.Errorf("expected ErrNoIndexData, got %v", err)
		}
	})

	t.Run("returns rows", func(t *testing.T) {
		repo := newMockIndexRepository()
		_ = repo.Seed(context.Background(), []indexentity.IndexMetric{
			{Ticker: "^GSPC", FullName: "S&P 500", Price: f(5000)},
		})
		uc := NewIndexesUsecase(repo, &mockQuoteFetcher{})

		metrics, err := uc.List(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(metrics) != 1 || metrics[0].Ticker != "^GSPC" {
			t.Errorf("unexpected metrics: %+v", metrics)
		}
	})
}

func TestIndexesUsecase_Refresh(t *testing.T) {
	t.Run("computes price and day-over-day performance", func(t *testing.T) {
		repo := newMockIndexRepository()
		quotes := &mockQuoteFetcher{
			FetchQuoteFunc: func(ctx context.Context, ticker string) (*indicatorentity.Quote, error) {
				return &indicatorentity.Quote{
					Ticker:        ticker,
					LastPrice:     f(102),
					PreviousClose: f(100),
				}, nil
			},
		}
		uc := NewIndexesUsecase(repo, quotes)

		if err := uc.Refresh(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// デフォルト一覧が投入され、全行が更新されている
		if len(repo.metrics) != len(defaultIndexes) {
			t.Fatalf("expected %d rows, got %d", len(defaultIndexes), len(repo.metrics))
		}
		got := repo.metrics["^GSPC"]
		if got.Price == nil || *got.Price != 102 {
			t.Errorf("unexpected price: %v", got.Price)
		}
		if got.Performance == nil || *got.Performance != 2 {
			t.Errorf("unexpected performance: %v", got.Performance)
		}
	})

	t.Run("per-ticker failure degrades to nil metrics", func(t *testing.T) {
		repo := newMockIndexRepository()
		quotes := &mockQuoteFetcher{
			FetchQuoteFunc: func(ctx context.Context, ticker string) (*indicatorentity.Quote, error) {
				if ticker == "^N225" {
					return nil, errors.New("provider timeout")
				}
				return &indicatorentity.Quote{LastPrice: f(50), PreviousClose: f(40)}, nil
			},
		}
		uc := NewIndexesUsecase(repo, quotes)

		if err := uc.Refresh(context.Background()); err != nil {
			t.Fatalf("batch must not abort on one ticker: %v", err)
		}
		failed := repo.metrics["^N225"]
		if failed.Price != nil || failed.Performance != nil {
			t.Errorf("failed ticker must have nil metrics, got %+v", failed)
		}
		ok := repo.metrics["^FTSE"]
		if ok.Price == nil || *ok.Price != 50 {
			t.Errorf("healthy tickers must still refresh, got %+v", ok)
		}
	})

	t.Run("missing previous close leaves performance nil", func(t *testing.T) {
		repo := newMockIndexRepository()
		quotes := &mockQuoteFetcher{
			FetchQuoteFunc: func(ctx context.Context, ticker string) (*indicatorentity.Quote, error) {
				return &indicatorentity.Quote{LastPrice: f(50)}, nil
			},
		}
		uc := NewIndexesUsecase(repo, quotes)

		if err := uc.Refresh(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := repo.metrics["^GSPC"]
		if got.Price == nil || *got.Price != 50 {
			t.Errorf("unexpected price: %v", got.Price)
		}
		if got.Performance != nil {
			t.Errorf("expected nil performance, got %v", *got.Performance)
		}
	})
}
