package cli

import (
	"errors"

	"github.com/roach88/roster/internal/fetch"
	"github.com/roach88/roster/internal/queryir"
	"github.com/roach88/roster/internal/store"
)

// Error code constants, shared by every command.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeInvalidInput   = "E002" // Bad flag or argument
	ErrCodeConfig         = "E003" // Configuration could not be loaded
	ErrCodeStorage        = "E004" // Database unavailable or statement failed
	ErrCodeNotFound       = "E005" // Query matched nothing
	ErrCodeNonUnique      = "E006" // Query matched more than one row
	ErrCodeInvalidQuery   = "E007" // Query rejected before execution
	ErrCodeFixture        = "E008" // Fixture file unreadable or invalid
	ErrCodeScenarioFailed = "E009" // One or more scenarios failed
)

// inputError marks errors caused by command-line input.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

// setupError marks failures before any query runs: configuration,
// storage connection and fixture loading.
type setupError struct {
	code string
	err  error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

// classify maps an error to its error code, exit code and details.
func classify(err error) (string, int, any) {
	var (
		buildErr *queryir.BuildError
		execErr  *fetch.ExecutionError
		inErr    *inputError
		setErr   *setupError
	)
	switch {
	case errors.As(err, &inErr):
		return ErrCodeInvalidInput, ExitCommandError, nil
	case errors.As(err, &setErr):
		return setErr.code, ExitCommandError, nil
	case errors.Is(err, fetch.ErrNotFound):
		return ErrCodeNotFound, ExitFailure, nil
	case errors.Is(err, fetch.ErrNonUniqueResult):
		return ErrCodeNonUnique, ExitFailure, nil
	case errors.As(err, &buildErr):
		return ErrCodeInvalidQuery, ExitFailure, map[string]string{"code": string(buildErr.Code)}
	case errors.As(err, &execErr):
		return ErrCodeStorage, ExitFailure, map[string]string{"sql": execErr.SQL}
	case errors.Is(err, store.ErrUnknownID):
		return ErrCodeNotFound, ExitFailure, nil
	default:
		return ErrCodeGeneric, ExitFailure, nil
	}
}
