package analytics

import "errors"

var (
	// ErrNotLoaded indicates no dataset snapshot has been loaded yet.
	ErrNotLoaded = errors.New("analytics: dataset not loaded")
	// ErrInvalidInput indicates invalid query parameters.
	ErrInvalidInput = errors.New("analytics: invalid input")
)
