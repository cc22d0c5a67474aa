package domain

import "errors"

// --- Domain Errors ---
// These are the failure kinds the catalog store (and request validation)
// can produce. Every error returned by the store wraps exactly one of them,
// so callers classify with errors.Is and the HTTP layer can translate each
// kind to exactly one response shape.
var (
	// ErrItemNotFound means the referenced item ID does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyExists means another item already uses the same name
	// (names are unique case-insensitively).
	ErrItemAlreadyExists = errors.New("item with this name already exists")

	// ErrInvalidItemData covers malformed input, negative numeric fields,
	// forbidden names and protected-deletion attempts.
	ErrInvalidItemData = errors.New("invalid item data")

	// ErrInvalidItemID means a path parameter could not be parsed as an item ID.
	ErrInvalidItemID = errors.New("invalid item ID format")

	// ErrStoreUnavailable is a simulated transient backend failure.
	// It is always recoverable by retrying and never indicates bad data.
	ErrStoreUnavailable = errors.New("catalog store unavailable")
)
