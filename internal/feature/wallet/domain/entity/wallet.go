// Package entity はwalletフィーチャーのドメインエンティティを定義します。
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletRow は保有銘柄1件を表します。
// Quantityは端株を許容するためdecimalで保持します。
type WalletRow struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"-"`
	Ticker    string          `gorm:"size:32;not null" json:"ticker"`
	Quantity  decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

// Favorite はユーザーのお気に入り銘柄を表します。
// ユーザーと銘柄の組で一意です。
type Favorite struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID uint   `gorm:"uniqueIndex:idx_fav_user_ticker;not null" json:"-"`
	Ticker string `gorm:"uniqueIndex:idx_fav_user_ticker;size:32;not null" json:"ticker"`
}
