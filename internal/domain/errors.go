package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownField is returned when a partial update names a field that cannot be patched.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidInput wraps malformed request values.
	ErrInvalidInput = errors.New("invalid input")
)
