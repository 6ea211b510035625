package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown category or source kind.
	ErrUnsupportedType = errors.New("unsupported type")

	// Walker errors.

	// ErrEndOfListing indicates the listing has no further pages.
	// This is the walker's normal terminal state, not a failure.
	ErrEndOfListing = errors.New("end of listing")

	// ErrLoopDetected indicates the listing endpoint repeated a page.
	// The upstream service is known to do this under heavy paging; the
	// walk for the affected category ends early and stays valid.
	ErrLoopDetected = errors.New("listing loop detected")

	// Summarisation errors.

	// ErrSummariserUnavailable indicates no summarisation model is
	// configured or reachable.
	ErrSummariserUnavailable = errors.New("summariser unavailable")

	// ErrNoDocuments indicates a summarisation request matched nothing.
	ErrNoDocuments = errors.New("no documents matched")
)
