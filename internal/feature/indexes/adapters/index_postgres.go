// Package adapters はindexesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_analysis/internal/feature/indexes/domain/entity"
	"stock_analysis/internal/feature/indexes/usecase"
)

// indexPostgres はIndexRepositoryインターフェースのPostgreSQL実装です。
type indexPostgres struct {
	db *gorm.DB
}

// indexPostgresがIndexRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.IndexRepository = (*indexPostgres)(nil)

// NewIndexPostgres は指定されたgorm.DB接続でindexPostgresの新しいインスタンスを生成します。
func NewIndexPostgres(db *gorm.DB) *indexPostgres {
	return &indexPostgres{db: db}
}

// List は全指数行を銘柄順で取得します。
func (r *indexPostgres) List(ctx context.Context) ([]entity.IndexMetric, error) {
	var metrics []entity.IndexMetric
	if err := r.db.WithContext(ctx).
		Order("ticker ASC").
		Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// Save は指数行の価格・騰落率を更新します。
// nil値も明示的に保存するため、Updatesではなく全カラムSaveを使用します。
func (r *indexPostgres) Save(ctx context.Context, metric *entity.IndexMetric) error {
	return r.db.WithContext(ctx).Save(metric).Error
}

// Seed は未登録の指数行のみ投入します。既存行は変更しません。
func (r *indexPostgres) Seed(ctx context.Context, metrics []entity.IndexMetric) error {
	if len(metrics) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&metrics).Error
}
