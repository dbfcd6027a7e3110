package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrInvalidCursor indicates a pagination cursor that was not issued by the source
	ErrInvalidCursor = errors.New("invalid page cursor")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrUnreachable indicates an asset source could not be retrieved
	ErrUnreachable = errors.New("asset source unreachable")
)
