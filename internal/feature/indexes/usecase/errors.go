// Package usecase implements the business logic for the indexes feature.
package usecase

import "errors"

// ErrNoIndexData is returned when the indexes table holds no rows yet.
var ErrNoIndexData = errors.New("no index data available")
