package query

import (
	"github.com/roach88/roster/internal/ir"
	"github.com/roach88/roster/internal/queryir"
)

// Predicate is a boolean condition. nil means "no constraint".
type Predicate = queryir.Predicate

// Order is one ORDER BY key.
type Order = queryir.Order

// Projection is anything that can be selected: a column, an aggregate, an
// entity, or a scalar subquery. The interface is sealed to this package.
type Projection interface {
	// Expr returns the IR node for this projection.
	Expr() queryir.Expr

	// Width is the number of result columns the projection occupies.
	Width() int

	decodeAny(vals []any) (any, error)
}

// Expression is a Projection whose decoded value has type T.
type Expression[T any] interface {
	Projection

	// Decode converts Width() raw column values into a T.
	Decode(vals []any) (T, error)
}

// Number is the set of Go types numeric attributes decode into.
type Number interface {
	int | int64 | float64
}

// NumberExpr is a numeric expression: a column, an aggregate or a subquery
// result.
type NumberExpr[N Number] struct {
	expr queryir.Expr
}

func (x NumberExpr[N]) Expr() queryir.Expr { return x.expr }
func (x NumberExpr[N]) Width() int         { return 1 }

func (x NumberExpr[N]) Decode(vals []any) (N, error) {
	return toNumber[N](vals[0])
}

func (x NumberExpr[N]) decodeAny(vals []any) (any, error) {
	return x.Decode(vals)
}

// Eq is x = v.
func (x NumberExpr[N]) Eq(v N) Predicate { return compare(queryir.OpEq, x.expr, literal(v)) }

// Ne is x <> v.
func (x NumberExpr[N]) Ne(v N) Predicate { return compare(queryir.OpNe, x.expr, literal(v)) }

// Lt is x < v.
func (x NumberExpr[N]) Lt(v N) Predicate { return compare(queryir.OpLt, x.expr, literal(v)) }

// Loe is x <= v.
func (x NumberExpr[N]) Loe(v N) Predicate { return compare(queryir.OpLe, x.expr, literal(v)) }

// Gt is x > v.
func (x NumberExpr[N]) Gt(v N) Predicate { return compare(queryir.OpGt, x.expr, literal(v)) }

// Goe is x >= v.
func (x NumberExpr[N]) Goe(v N) Predicate { return compare(queryir.OpGe, x.expr, literal(v)) }

// Between is lo <= x <= hi.
func (x NumberExpr[N]) Between(lo, hi N) Predicate {
	return queryir.Between{Expr: x.expr, Low: literal(lo), High: literal(hi)}
}

// In is x IN (vs...).
func (x NumberExpr[N]) In(vs ...N) Predicate { return in(x.expr, vs, false) }

// NotIn is x NOT IN (vs...).
func (x NumberExpr[N]) NotIn(vs ...N) Predicate { return in(x.expr, vs, true) }

// IsNull is x IS NULL.
func (x NumberExpr[N]) IsNull() Predicate { return queryir.IsNull{Expr: x.expr} }

// IsNotNull is x IS NOT NULL.
func (x NumberExpr[N]) IsNotNull() Predicate { return queryir.IsNull{Expr: x.expr, Negated: true} }

// EqExpr compares against another expression, typically a subquery.
func (x NumberExpr[N]) EqExpr(o Expression[N]) Predicate {
	return compare(queryir.OpEq, x.expr, o.Expr())
}

// NeExpr is x <> o.
func (x NumberExpr[N]) NeExpr(o Expression[N]) Predicate {
	return compare(queryir.OpNe, x.expr, o.Expr())
}

// LtExpr is x < o.
func (x NumberExpr[N]) LtExpr(o Expression[N]) Predicate {
	return compare(queryir.OpLt, x.expr, o.Expr())
}

// GtExpr is x > o.
func (x NumberExpr[N]) GtExpr(o Expression[N]) Predicate {
	return compare(queryir.OpGt, x.expr, o.Expr())
}

// GoeExpr is x >= o.
func (x NumberExpr[N]) GoeExpr(o Expression[N]) Predicate {
	return compare(queryir.OpGe, x.expr, o.Expr())
}

// LoeExpr is x <= o.
func (x NumberExpr[N]) LoeExpr(o Expression[N]) Predicate {
	return compare(queryir.OpLe, x.expr, o.Expr())
}

// InExpr is x IN (subquery).
func (x NumberExpr[N]) InExpr(sub Expression[N]) Predicate {
	return queryir.In{Expr: x.expr, Values: []queryir.Expr{sub.Expr()}}
}

// Float views x as a float64 expression, for comparisons against
// averages. The SQL is unchanged.
func (x NumberExpr[N]) Float() NumberExpr[float64] {
	return NumberExpr[float64]{expr: x.expr}
}

// Asc orders ascending by x.
func (x NumberExpr[N]) Asc() Order { return Order{Expr: x.expr} }

// Desc orders descending by x.
func (x NumberExpr[N]) Desc() Order { return Order{Expr: x.expr, Desc: true} }

// NumberPath is a numeric column. Unlike NumberExpr it can be aggregated.
type NumberPath[N Number] struct {
	NumberExpr[N]
}

func numberPath[N Number](alias, name string) NumberPath[N] {
	return NumberPath[N]{NumberExpr[N]{expr: queryir.Column{Source: alias, Name: name}}}
}

// Count is COUNT(x): the number of non-null values.
func (p NumberPath[N]) Count() NumberExpr[int64] {
	return NumberExpr[int64]{expr: aggregate(queryir.AggCount, p.expr)}
}

// Sum is SUM(x).
func (p NumberPath[N]) Sum() NumberExpr[N] {
	return NumberExpr[N]{expr: aggregate(queryir.AggSum, p.expr)}
}

// Avg is AVG(x).
func (p NumberPath[N]) Avg() NumberExpr[float64] {
	return NumberExpr[float64]{expr: aggregate(queryir.AggAvg, p.expr)}
}

// Max is MAX(x).
func (p NumberPath[N]) Max() NumberExpr[N] {
	return NumberExpr[N]{expr: aggregate(queryir.AggMax, p.expr)}
}

// Min is MIN(x).
func (p NumberPath[N]) Min() NumberExpr[N] {
	return NumberExpr[N]{expr: aggregate(queryir.AggMin, p.expr)}
}

// StringExpr is a text expression.
type StringExpr struct {
	expr queryir.Expr
}

func (x StringExpr) Expr() queryir.Expr { return x.expr }
func (x StringExpr) Width() int         { return 1 }

func (x StringExpr) Decode(vals []any) (string, error) {
	return toString(vals[0])
}

func (x StringExpr) decodeAny(vals []any) (any, error) {
	return x.Decode(vals)
}

// Eq is x = v.
func (x StringExpr) Eq(v string) Predicate { return compare(queryir.OpEq, x.expr, literal(v)) }

// Ne is x <> v.
func (x StringExpr) Ne(v string) Predicate { return compare(queryir.OpNe, x.expr, literal(v)) }

// Like is x LIKE pattern, with % and _ wildcards.
func (x StringExpr) Like(pattern string) Predicate {
	return compare(queryir.OpLike, x.expr, literal(pattern))
}

// Contains is x LIKE %s%.
func (x StringExpr) Contains(s string) Predicate { return x.Like("%" + s + "%") }

// StartsWith is x LIKE s%.
func (x StringExpr) StartsWith(s string) Predicate { return x.Like(s + "%") }

// EndsWith is x LIKE %s.
func (x StringExpr) EndsWith(s string) Predicate { return x.Like("%" + s) }

// In is x IN (vs...).
func (x StringExpr) In(vs ...string) Predicate { return in(x.expr, vs, false) }

// NotIn is x NOT IN (vs...).
func (x StringExpr) NotIn(vs ...string) Predicate { return in(x.expr, vs, true) }

// IsNull is x IS NULL.
func (x StringExpr) IsNull() Predicate { return queryir.IsNull{Expr: x.expr} }

// IsNotNull is x IS NOT NULL.
func (x StringExpr) IsNotNull() Predicate { return queryir.IsNull{Expr: x.expr, Negated: true} }

// EqExpr compares against another text expression.
func (x StringExpr) EqExpr(o Expression[string]) Predicate {
	return compare(queryir.OpEq, x.expr, o.Expr())
}

// Asc orders ascending by x.
func (x StringExpr) Asc() Order { return Order{Expr: x.expr} }

// Desc orders descending by x.
func (x StringExpr) Desc() Order { return Order{Expr: x.expr, Desc: true} }

// StringPath is a text column.
type StringPath struct {
	StringExpr
}

func stringPath(alias, name string) StringPath {
	return StringPath{StringExpr{expr: queryir.Column{Source: alias, Name: name}}}
}

// Count is COUNT(x).
func (p StringPath) Count() NumberExpr[int64] {
	return NumberExpr[int64]{expr: aggregate(queryir.AggCount, p.expr)}
}

// Max is MAX(x).
func (p StringPath) Max() StringExpr {
	return StringExpr{expr: aggregate(queryir.AggMax, p.expr)}
}

// Min is MIN(x).
func (p StringPath) Min() StringExpr {
	return StringExpr{expr: aggregate(queryir.AggMin, p.expr)}
}

// And combines predicates with AND. nil operands are dropped; nested Ands
// are flattened. Returns nil when nothing remains.
func And(ps ...Predicate) Predicate {
	out := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		switch pred := p.(type) {
		case nil:
			continue
		case queryir.And:
			out = append(out, pred.Predicates...)
		default:
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return queryir.And{Predicates: out}
	}
}

// Or combines predicates with OR. nil operands are dropped. Returns nil
// when nothing remains.
func Or(ps ...Predicate) Predicate {
	out := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return queryir.Or{Predicates: out}
	}
}

// Not negates p. Not(nil) is nil.
func Not(p Predicate) Predicate {
	if p == nil {
		return nil
	}
	return queryir.Not{Predicate: p}
}

func compare(op queryir.CompareOp, left, right queryir.Expr) Predicate {
	return queryir.Compare{Op: op, Left: left, Right: right}
}

func literal(v any) queryir.Expr {
	return queryir.Literal{Value: ir.MustOf(v)}
}

func in[T any](e queryir.Expr, vs []T, negated bool) Predicate {
	values := make([]queryir.Expr, len(vs))
	for i, v := range vs {
		values[i] = literal(v)
	}
	return queryir.In{Expr: e, Values: values, Negated: negated}
}

func aggregate(fn queryir.AggFunc, arg queryir.Expr) queryir.Expr {
	return queryir.Aggregate{Func: fn, Arg: arg}
}
