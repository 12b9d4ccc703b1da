// Package entity defines the domain models for the auth feature.
package entity

import "github.com/shopspring/decimal"

// User is a registered account. Principal is the cash amount the user
// declared at registration, kept as an exact decimal.
type User struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"size:255"`
	Surname   string          `gorm:"size:255"`
	Email     string          `gorm:"size:255;uniqueIndex;not null"`
	Principal decimal.Decimal `gorm:"type:numeric(18,6)"`
	Password  string          `gorm:"size:255;not null"` // bcrypt hash
}
