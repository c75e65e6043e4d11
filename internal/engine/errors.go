package engine

import "errors"

var (
	// ErrNotInitialized is returned for queries issued before the engine is ready.
	ErrNotInitialized = errors.New("Database not initialized")
	ErrEmptyQuery     = errors.New("query is empty")
	ErrAlreadyClosed  = errors.New("engine is closed")
)
