// Package adapters はwalletフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"stock_analysis/internal/feature/wallet/domain/entity"
	"stock_analysis/internal/feature/wallet/usecase"
)

// walletPostgres はWalletRepositoryインターフェースのPostgreSQL実装です。
type walletPostgres struct {
	db *gorm.DB
}

// walletPostgresがWalletRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.WalletRepository = (*walletPostgres)(nil)

// NewWalletPostgres は指定されたgorm.DB接続でwalletPostgresの新しいインスタンスを生成します。
func NewWalletPostgres(db *gorm.DB) *walletPostgres {
	return &walletPostgres{db: db}
}

// CreateRow は保有行をデータベースに追加します。
func (r *walletPostgres) CreateRow(ctx context.Context, row *entity.WalletRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// ListRows は指定ユーザーの保有行を作成日時の昇順で取得します。
func (r *walletPostgres) ListRows(ctx context.Context, userID uint) ([]entity.WalletRow, error) {
	var rows []entity.WalletRow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteRow は指定ユーザーが所有する行のみ削除します。
// 行が存在しないか他ユーザーの所有の場合、usecase.ErrRowNotFoundを返します。
func (r *walletPostgres) DeleteRow(ctx context.Context, userID, rowID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", rowID, userID).
		Delete(&entity.WalletRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrRowNotFound
	}
	return nil
}

// favoritePostgres はFavoriteRepositoryインターフェースのPostgreSQL実装です。
type favoritePostgres struct {
	db *gorm.DB
}

// favoritePostgresがFavoriteRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.FavoriteRepository = (*favoritePostgres)(nil)

// NewFavoritePostgres は指定されたgorm.DB接続でfavoritePostgresの新しいインスタンスを生成します。
func NewFavoritePostgres(db *gorm.DB) *favoritePostgres {
	return &favoritePostgres{db: db}
}

// Add はお気に入りを追加します。
// ユーザーと銘柄の組が既に存在する場合、usecase.ErrAlreadyFavoriteを返します。
func (r *favoritePostgres) Add(ctx context.Context, fav *entity.Favorite) error {
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		// SQLSTATE 23505: ユニーク制約違反
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return usecase.ErrAlreadyFavorite
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrAlreadyFavorite
		}
		return err
	}
	return nil
}

// Remove はお気に入りを削除します。
// 存在しない場合、usecase.ErrFavoriteNotFoundを返します。
func (r *favoritePostgres) Remove(ctx context.Context, userID uint, ticker string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Delete(&entity.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrFavoriteNotFound
	}
	return nil
}

// List は指定ユーザーのお気に入り銘柄を銘柄順で取得します。
func (r *favoritePostgres) List(ctx context.Context, userID uint) ([]entity.Favorite, error) {
	var favs []entity.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ticker ASC").
		Find(&favs).Error; err != nil {
		return nil, err
	}
	return favs, nil
}
