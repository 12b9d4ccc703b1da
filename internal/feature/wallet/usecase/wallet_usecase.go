// Package usecase はwalletフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	"stock_analysis/internal/feature/wallet/domain/entity"

	"github.com/shopspring/decimal"
)

// maxTickerLength は受け付ける銘柄シンボルの最大長です。
const maxTickerLength = 32

// WalletRepository はウォレット行の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type WalletRepository interface {
	// CreateRow は新しい保有行を永続化します。
	CreateRow(ctx context.Context, row *entity.WalletRow) error

	// ListRows は指定ユーザーの保有行を作成日時の昇順で取得します。
	ListRows(ctx context.Context, userID uint) ([]entity.WalletRow, error)

	// DeleteRow は指定ユーザーが所有する行のみ削除します。
	// 行が存在しないか他ユーザーの所有の場合、エラーを返します。
	DeleteRow(ctx context.Context, userID, rowID uint) error
}

// FavoriteRepository はお気に入り銘柄の永続化層を抽象化します。
type FavoriteRepository interface {
	// Add はお気に入りを追加します。既に存在する場合、エラーを返します。
	Add(ctx context.Context, fav *entity.Favorite) error

	// Remove はお気に入りを削除します。存在しない場合、エラーを返します。
	Remove(ctx context.Context, userID uint, ticker string) error

	// List は指定ユーザーのお気に入り銘柄を取得します。
	List(ctx context.Context, userID uint) ([]entity.Favorite, error)
}

// walletUsecase はウォレットとお気に入りのビジネスロジックを実装します。
type walletUsecase struct {
	rows      WalletRepository
	favorites FavoriteRepository
}

// NewWalletUsecase はwalletUsecaseの新しいインスタンスを生成します。
func NewWalletUsecase(rows WalletRepository, favorites FavoriteRepository) *walletUsecase {
	return &walletUsecase{rows: rows, favorites: favorites}
}

// normalizeTicker は銘柄シンボルを検証し、大文字に正規化します。
func normalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" || len(t) > maxTickerLength {
		return "", ErrInvalidTicker
	}
	return t, nil
}

// AddRow は保有行を追加します。数量は文字列で受け取り、decimalとして検証します。
func (u *walletUsecase) AddRow(ctx context.Context, userID uint, ticker, quantity string) (*entity.WalletRow, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	qty, err := decimal.NewFromString(quantity)
	if err != nil || !qty.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	row := &entity.WalletRow{
		UserID:   userID,
		Ticker:   t,
		Quantity: qty,
	}
	if err := u.rows.CreateRow(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// ListRows は指定ユーザーの保有行を取得します。
func (u *walletUsecase) ListRows(ctx context.Context, userID uint) ([]entity.WalletRow, error) {
	return u.rows.ListRows(ctx, userID)
}

// DeleteRow は指定ユーザーが所有する行を削除します。
func (u *walletUsecase) DeleteRow(ctx context.Context, userID, rowID uint) error {
	return u.rows.DeleteRow(ctx, userID, rowID)
}

// AddFavorite はお気に入り銘柄を追加します。
func (u *walletUsecase) AddFavorite(ctx context.Context, userID uint, ticker string) error {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return err
	}
	return u.favorites.Add(ctx, &entity.Favorite{UserID: userID, Ticker: t})
}

// RemoveFavorite はお気に入り銘柄を削除します。
func (u *walletUsecase) RemoveFavorite(ctx context.Context, userID uint, ticker string) error {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return err
	}
	return u.favorites.Remove(ctx, userID, t)
}

// ListFavorites は指定ユーザーのお気に入り銘柄を取得します。
func (u *walletUsecase) ListFavorites(ctx context.Context, userID uint) ([]entity.Favorite, error) {
	return u.favorites.List(ctx, userID)
}
