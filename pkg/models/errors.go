package models

import "errors"

// Error kinds surfaced by the scheduling engine. Check with errors.Is.
var (
	ErrInvalidInput     = errors.New("vocab: invalid input")
	ErrNotFound         = errors.New("vocab: not found")
	ErrConflict         = errors.New("vocab: concurrent update conflict")
	ErrStoreUnavailable = errors.New("vocab: store unavailable")
)
