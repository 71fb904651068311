package queryir

import (
	"errors"
	"fmt"
)

// BuildError reports a structurally invalid query. It is always detected
// before the query reaches storage.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string
}

// BuildErrorCode categorizes build errors.
type BuildErrorCode string

const (
	// ErrCodeEmptyProjection indicates a query that selects nothing.
	ErrCodeEmptyProjection BuildErrorCode = "EMPTY_PROJECTION"

	// ErrCodeUnknownSource indicates a reference to an alias not in scope.
	ErrCodeUnknownSource BuildErrorCode = "UNKNOWN_SOURCE"

	// ErrCodeUnknownColumn indicates a column not declared on its alias's table.
	ErrCodeUnknownColumn BuildErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeAmbiguousAlias indicates an alias declared twice in one scope,
	// including a subquery reusing an alias of its enclosing query.
	ErrCodeAmbiguousAlias BuildErrorCode = "AMBIGUOUS_ALIAS"

	// ErrCodeInvalidJoin indicates a join without a condition or along an
	// undeclared relation.
	ErrCodeInvalidJoin BuildErrorCode = "INVALID_JOIN"

	// ErrCodeHavingWithoutGrouping indicates HAVING on a non-aggregate query.
	ErrCodeHavingWithoutGrouping BuildErrorCode = "HAVING_WITHOUT_GROUPING"

	// ErrCodeUngroupedProjection indicates a non-aggregated projection that
	// is not a grouping key of an aggregate query.
	ErrCodeUngroupedProjection BuildErrorCode = "UNGROUPED_PROJECTION"

	// ErrCodeMisplacedAggregate indicates an aggregate in WHERE, ON or
	// GROUP BY.
	ErrCodeMisplacedAggregate BuildErrorCode = "MISPLACED_AGGREGATE"

	// ErrCodeNonNumericAggregate indicates SUM or AVG over a non-numeric
	// column, or any aggregate but COUNT over a whole entity.
	ErrCodeNonNumericAggregate BuildErrorCode = "NON_NUMERIC_AGGREGATE"

	// ErrCodeScalarSubqueryArity indicates a subquery in scalar position that
	// does not project exactly one column.
	ErrCodeScalarSubqueryArity BuildErrorCode = "SCALAR_SUBQUERY_ARITY"

	// ErrCodeInvalidPaging indicates a negative offset or limit.
	ErrCodeInvalidPaging BuildErrorCode = "INVALID_PAGING"

	// ErrCodeUnsupportedNode indicates a nil or unknown expression/predicate.
	ErrCodeUnsupportedNode BuildErrorCode = "UNSUPPORTED_NODE"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBuildError creates a BuildError with a formatted message.
func NewBuildError(code BuildErrorCode, format string, args ...any) *BuildError {
	return &BuildError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsBuildError returns true if err is or wraps a BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}

// BuildErrorCodeOf returns the code of a wrapped BuildError, or "" when err
// is not a BuildError.
func BuildErrorCodeOf(err error) BuildErrorCode {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
