// Package fetch runs built queries against storage and decodes the rows.
//
// Every entry point builds (and so validates) the query first: a query
// with structural errors returns a *queryir.BuildError and never reaches
// the database. Driver failures come back as *ExecutionError.
//
//	members, err := fetch.List(ctx, f, query.SelectFrom(query.Member).OrderBy(query.Member.Age.Desc()))
//	oldest, err := fetch.First(ctx, f, query.SelectFrom(query.Member).OrderBy(query.Member.Age.Desc()))
//	n, err := fetch.Count(ctx, f, query.SelectFrom(query.Member))
package fetch

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/query"
	"github.com/roach88/roster/internal/queryir"
	"github.com/roach88/roster/internal/querysql"
)

// Executor runs compiled SQL. *store.Store implements it.
type Executor interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Dialect() querysql.Dialect
}

// Fetcher executes queries through an Executor. It holds no per-query
// state and is safe for concurrent use.
type Fetcher struct {
	exec     Executor
	compiler *querysql.SQLCompiler
	log      *zap.SugaredLogger
}

// New creates a Fetcher. log may be nil.
func New(exec Executor, log *zap.SugaredLogger) *Fetcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Fetcher{
		exec:     exec,
		compiler: querysql.NewSQLCompiler(exec.Dialect()),
		log:      log.Named("fetch"),
	}
}

// List returns every row, in query order. No rows yields an empty,
// non-nil slice.
func List[T any](ctx context.Context, f *Fetcher, b *query.Builder[T]) ([]T, error) {
	sel, err := b.Build()
	if err != nil {
		return nil, err
	}
	return run(ctx, f, b, sel)
}

// One returns the only row. It fails with ErrNotFound when there is none
// and ErrNonUniqueResult when there are several. At most two rows are
// read to decide.
func One[T any](ctx context.Context, f *Fetcher, b *query.Builder[T]) (T, error) {
	var zero T
	sel, err := b.Build()
	if err != nil {
		return zero, err
	}
	sel.Limit = capLimit(sel.Limit, 2)

	rows, err := run(ctx, f, b, sel)
	if err != nil {
		return zero, err
	}
	switch len(rows) {
	case 0:
		return zero, ErrNotFound
	case 1:
		return rows[0], nil
	default:
		return zero, ErrNonUniqueResult
	}
}

// First returns the first row in query order, or an absent value when
// there is none. Only one row is read.
func First[T any](ctx context.Context, f *Fetcher, b *query.Builder[T]) (opt.Value[T], error) {
	sel, err := b.Build()
	if err != nil {
		return opt.None[T](), err
	}
	sel.Limit = capLimit(sel.Limit, 1)

	rows, err := run(ctx, f, b, sel)
	if err != nil {
		return opt.None[T](), err
	}
	if len(rows) == 0 {
		return opt.None[T](), nil
	}
	return opt.Some(rows[0]), nil
}

// Count returns the number of rows the query would return, ignoring its
// ordering, offset and limit.
func Count[T any](ctx context.Context, f *Fetcher, b *query.Builder[T]) (int64, error) {
	sel, err := b.Build()
	if err != nil {
		return 0, err
	}
	sqlText, args, err := f.compiler.CompileCount(sel)
	if err != nil {
		return 0, fmt.Errorf("compile count: %w", err)
	}

	start := time.Now()
	rows, err := f.exec.Query(ctx, sqlText, args...)
	if err != nil {
		return 0, &ExecutionError{SQL: sqlText, Err: err}
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, &ExecutionError{SQL: sqlText, Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return 0, &ExecutionError{SQL: sqlText, Err: err}
	}
	f.log.Debugw("count executed", "sql", sqlText, "count", n, "elapsed", time.Since(start))
	return n, nil
}

// capLimit lowers a limit to at most n, keeping a smaller user limit.
func capLimit(limit opt.Value[int], n int) opt.Value[int] {
	if l, ok := limit.Get(); ok && l < n {
		return limit
	}
	return opt.Some(n)
}

func run[T any](ctx context.Context, f *Fetcher, b *query.Builder[T], sel *queryir.Select) ([]T, error) {
	sqlText, args, err := f.compiler.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	start := time.Now()
	rows, err := f.exec.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, &ExecutionError{SQL: sqlText, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &ExecutionError{SQL: sqlText, Err: err}
	}
	width := b.Width()
	if len(cols) != width {
		return nil, fmt.Errorf("query returned %d columns, projection needs %d", len(cols), width)
	}

	vals := make([]any, width)
	ptrs := make([]any, width)
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	out := make([]T, 0)
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &ExecutionError{SQL: sqlText, Err: err}
		}
		v, err := b.Decode(vals)
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(out), err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{SQL: sqlText, Err: err}
	}

	f.log.Debugw("query executed",
		"sql", sqlText,
		"args", len(args),
		"rows", len(out),
		"elapsed", time.Since(start),
	)
	return out, nil
}
