// Package usecase はindexesフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"

	indexentity "stock_analysis/internal/feature/indexes/domain/entity"
	indicatorentity "stock_analysis/internal/feature/indicators/domain/entity"
)

// defaultIndexes は初回起動時にindexesテーブルへ投入する主要指数の一覧です。
var defaultIndexes = []indexentity.IndexMetric{
	{Ticker: "^GSPC", FullName: "S&P 500"},
	{Ticker: "^DJI", FullName: "Dow Jones Industrial Average"},
	{Ticker: "^IXIC", FullName: "NASDAQ Composite"},
	{Ticker: "^N225", FullName: "Nikkei 225"},
	{Ticker: "^FTSE", FullName: "FTSE 100"},
	{Ticker: "^GDAXI", FullName: "DAX"},
	{Ticker: "^FCHI", FullName: "CAC 40"},
	{Ticker: "^STOXX50E", FullName: "Euro Stoxx 50"},
	{Ticker: "^HSI", FullName: "Hang Seng Index"},
	{Ticker: "^BVSP", FullName: "Ibovespa"},
}

// IndexRepository は指数概況の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type IndexRepository interface {
	// List は全指数行を銘柄順で取得します。
	List(ctx context.Context) ([]indexentity.IndexMetric, error)

	// Save は指数行の価格・騰落率を更新します。
	Save(ctx context.Context, metric *indexentity.IndexMetric) error

	// Seed は未登録の指数行のみ投入します。既存行は変更しません。
	Seed(ctx context.Context, metrics []indexentity.IndexMetric) error
}

// QuoteFetcher は指数のスナップショット取得を抽象化します。
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, ticker string) (*indicatorentity.Quote, error)
}

// indexesUsecase は指数概況の参照と更新を実装します。
type indexesUsecase struct {
	repo   IndexRepository
	quotes QuoteFetcher
}

// NewIndexesUsecase はindexesUsecaseの新しいインスタンスを生成します。
func NewIndexesUsecase(repo IndexRepository, quotes QuoteFetcher) *indexesUsecase {
	return &indexesUsecase{repo: repo, quotes: quotes}
}

// List は市場概況の全行を返します。行が存在しない場合、ErrNoIndexDataを返します。
func (u *indexesUsecase) List(ctx context.Context) ([]indexentity.IndexMetric, error) {
	metrics, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, ErrNoIndexData
	}
	return metrics, nil
}

// Refresh は全指数行の価格と前日比騰落率を再計算して保存します。
// 個別銘柄の取得失敗はnil値として保存し、バッチ全体は中断しません。
func (u *indexesUsecase) Refresh(ctx context.Context) error {
	if err := u.repo.Seed(ctx, defaultIndexes); err != nil {
		return err
	}

	metrics, err := u.repo.List(ctx)
	if err != nil {
		return err
	}

	for i := range metrics {
		m := &metrics[i]
		m.Price, m.Performance = u.snapshot(ctx, m.Ticker)
		if err := u.repo.Save(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// snapshot は1指数の現在価格と前日比騰落率（%）を取得します。
// 取得失敗時は両方nilを返します。
func (u *indexesUsecase) snapshot(ctx context.Context, ticker string) (*float64, *float64) {
	quote, err := u.quotes.FetchQuote(ctx, ticker)
	if err != nil || quote == nil {
		slog.Warn("index snapshot failed", "ticker", ticker, "error", err)
		return nil, nil
	}
	price := quote.LastPrice
	if price == nil || quote.PreviousClose == nil || *quote.PreviousClose == 0 {
		return price, nil
	}
	perf := (*price - *quote.PreviousClose) / *quote.PreviousClose * 100
	return price, &perf
}
