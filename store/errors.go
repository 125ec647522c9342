package store

import (
	"errors"
	"fmt"
)

// ErrNotPersisted indicates the adapter holds no snapshot for the thread.
var ErrNotPersisted = errors.New("store: thread not persisted")

// SerializationError wraps JSON marshaling/unmarshaling errors with the
// thread they concern.
type SerializationError struct {
	ThreadID string
	Err      error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("store: serialization error for thread %q: %v", e.ThreadID, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
