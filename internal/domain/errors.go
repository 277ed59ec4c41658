package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrNotHydrated indicates a cart mutation was attempted before the
	// session's initial load completed.
	ErrNotHydrated = errors.New("cart session not hydrated")
)
