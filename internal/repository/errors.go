package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable is returned when the database cannot be reached.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrNotInitialized is returned by a store whose connection was never established.
	ErrNotInitialized = errors.New("document store not initialized")

	// ErrInvalidConnString is returned when DATABASE_URL cannot be parsed.
	ErrInvalidConnString = errors.New("invalid database connection string")

	// ErrInvalidCollection is returned for an empty collection name.
	ErrInvalidCollection = errors.New("invalid collection name")
)

// PersistenceError reports a failed document write.
type PersistenceError struct {
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
