package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrInvalidDocType   = errors.New("invalid doc type")
	ErrModelUnavailable = errors.New("model not configured or unavailable")
)
