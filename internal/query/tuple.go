package query

import (
	"fmt"
	"strings"

	"github.com/roach88/roster/internal/queryir"
)

// Tuple is one row of a multi-expression projection. Values are looked up
// by the expression that produced them.
type Tuple struct {
	keys   []string
	values []any
	nulls  []bool
}

func decodeTuple(items []Projection, vals []any) (Tuple, error) {
	t := Tuple{
		keys:   make([]string, len(items)),
		values: make([]any, len(items)),
		nulls:  make([]bool, len(items)),
	}
	pos := 0
	for i, item := range items {
		w := item.Width()
		if pos+w > len(vals) {
			return Tuple{}, fmt.Errorf("row has %d columns, projection needs more", len(vals))
		}
		part := vals[pos : pos+w]
		v, err := item.decodeAny(part)
		if err != nil {
			return Tuple{}, fmt.Errorf("decode %s: %w", queryir.Key(item.Expr()), err)
		}
		t.keys[i] = queryir.Key(item.Expr())
		t.values[i] = v
		t.nulls[i] = allNil(part)
		pos += w
	}
	return t, nil
}

func allNil(vals []any) bool {
	for _, v := range vals {
		if v != nil {
			return false
		}
	}
	return true
}

func (t Tuple) index(e Projection) int {
	key := queryir.Key(e.Expr())
	for i, k := range t.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Len returns the number of projected expressions.
func (t Tuple) Len() int { return len(t.keys) }

// IsNull reports whether every column of e was NULL in this row. It is
// false for expressions that are not part of the tuple.
func (t Tuple) IsNull(e Projection) bool {
	i := t.index(e)
	return i >= 0 && t.nulls[i]
}

// Lookup returns the decoded value of e and whether e is in the tuple.
func Lookup[T any](t Tuple, e Expression[T]) (T, bool) {
	i := t.index(e)
	if i < 0 {
		var zero T
		return zero, false
	}
	v, ok := t.values[i].(T)
	return v, ok
}

// Get returns the decoded value of e, or the zero T when e is not part of
// the tuple.
//
//	name := query.Get(row, query.Member.UserName)
func Get[T any](t Tuple, e Expression[T]) T {
	v, _ := Lookup(t, e)
	return v
}

func (t Tuple) String() string {
	parts := make([]string, len(t.values))
	for i, v := range t.values {
		if t.nulls[i] {
			parts[i] = "null"
			continue
		}
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
