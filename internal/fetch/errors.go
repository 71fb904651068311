package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by One when the query matches no row.
	ErrNotFound = errors.New("no result")

	// ErrNonUniqueResult is returned by One when the query matches more
	// than one row.
	ErrNonUniqueResult = errors.New("more than one result")
)

// ExecutionError reports a failure inside the storage engine while
// running a compiled query. The driver error is available via Unwrap.
type ExecutionError struct {
	// SQL is the statement that failed.
	SQL string

	// Err is the driver error.
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute query: %v", e.Err)
}

// Unwrap returns the driver error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsExecutionError returns true if err is or wraps an ExecutionError.
func IsExecutionError(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}
