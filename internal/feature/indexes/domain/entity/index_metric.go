// Package entity はindexesフィーチャーのドメインエンティティを定義します。
package entity

// IndexMetric は主要株価指数1件の概況を表します。
// PriceとPerformanceは取得失敗時にnilのまま保存されます。
type IndexMetric struct {
	Ticker      string   `gorm:"primaryKey;size:32" json:"ticker"`
	FullName    string   `gorm:"size:128;not null" json:"full_name"`
	Price       *float64 `json:"price"`
	Performance *float64 `json:"performance"`
}

// TableName はGORMのテーブル名を指定します。
func (IndexMetric) TableName() string {
	return "indexes"
}
