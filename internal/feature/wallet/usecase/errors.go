// Package usecase implements the business logic for the wallet feature.
package usecase

import "errors"

var (
	// ErrRowNotFound is returned when a wallet row does not exist or
	// belongs to another user.
	ErrRowNotFound = errors.New("wallet row not found")

	// ErrInvalidQuantity is returned when a quantity cannot be parsed
	// or is not strictly positive.
	ErrInvalidQuantity = errors.New("quantity must be a positive number")

	// ErrInvalidTicker is returned when a ticker symbol is empty or malformed.
	ErrInvalidTicker = errors.New("invalid ticker symbol")

	// ErrAlreadyFavorite is returned when the ticker is already in the
	// user's favorites.
	ErrAlreadyFavorite = errors.New("ticker already in favorites")

	// ErrFavoriteNotFound is returned when removing a ticker that is not
	// in the user's favorites.
	ErrFavoriteNotFound = errors.New("favorite not found")
)
