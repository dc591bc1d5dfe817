package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrQuotaExhausted        = errors.New("daily api quota exhausted")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
