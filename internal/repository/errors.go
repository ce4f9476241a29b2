package repository

import "errors"

var (
	// ErrEmptyDescription is returned before any statement runs when the
	// trimmed description is empty.
	ErrEmptyDescription = errors.New("task description cannot be empty")

	// ErrNotFound is returned when no row matched the given task id.
	ErrNotFound = errors.New("task not found")
)

// StorageError wraps a datastore failure with the operation that hit it.
// The full cause goes to the log; callers show only a generic message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
