// Package storage holds the errors shared by persistence backends.
package storage

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned on unique constraint violations.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInvalidReference is returned when a write references a row
	// that does not exist.
	ErrInvalidReference = errors.New("invalid reference")
)
