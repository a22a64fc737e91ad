package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidEntry     = errors.New("invalid entry")
	ErrWriteFailure     = errors.New("write failure")
	ErrInsufficientPool = errors.New("insufficient words for a quiz")
	ErrNoActiveQuiz     = errors.New("no active quiz")
	ErrUnavailable      = errors.New("unavailable")
)
