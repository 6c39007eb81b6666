// Package internalerr holds the sentinel errors shared by the knex packages.
// Callers wrap them with context and match with errors.Is.
package internalerr

import "errors"

var (
	// ErrNotFound is returned for unknown analysis IDs.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks blank documents, unparsable markup and empty
	// search terms.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable is returned when the record store cannot be
	// opened or reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
