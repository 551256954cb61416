// Package usecase implements the business logic for the horoscope feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when the horoscope owner does not exist.
	ErrUserNotFound = errors.New("user not found")
)
