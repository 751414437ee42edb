package domain

import "errors"

var (
	// ErrInvalidQuery means lat or lon was absent or not a finite number.
	ErrInvalidQuery = errors.New("latitude and longitude are required")

	// ErrDatasetUnavailable wraps any failure reading the restaurant dataset.
	ErrDatasetUnavailable = errors.New("restaurant dataset unavailable")
)
