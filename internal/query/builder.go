package query

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/queryir"
)

// Builder assembles a query whose rows decode into T. Every method returns
// a new Builder; the receiver is never modified.
//
// Errors found while chaining (joining along a relation to the wrong table,
// On without a join) are recorded and returned by Build. All other
// structural checks run in Build through queryir.Validate.
type Builder[T any] struct {
	sel    queryir.Select
	width  int
	decode func(vals []any) (T, error)
	err    error
}

// EntityExpression is an entity descriptor: both a table to read from and
// a projection decoding into T.
type EntityExpression[T any] interface {
	Expression[T]
	EntityPath
}

// SelectFrom projects and reads from the same entity:
//
//	query.SelectFrom(query.Member)  // SELECT m.* FROM tbl_member m
func SelectFrom[T any](e EntityExpression[T]) *Builder[T] {
	return Select[T](e).From(e)
}

// Select starts a query projecting a single expression. Call From next.
func Select[T any](e Expression[T]) *Builder[T] {
	return &Builder[T]{
		sel:    queryir.Select{Projection: []queryir.Expr{e.Expr()}},
		width:  e.Width(),
		decode: e.Decode,
	}
}

// SelectTuple starts a query projecting several expressions. Rows decode
// into a Tuple; read values back with Get.
func SelectTuple(es ...Projection) *Builder[Tuple] {
	exprs := make([]queryir.Expr, len(es))
	width := 0
	for i, e := range es {
		exprs[i] = e.Expr()
		width += e.Width()
	}
	items := slices.Clone(es)
	return &Builder[Tuple]{
		sel:   queryir.Select{Projection: exprs},
		width: width,
		decode: func(vals []any) (Tuple, error) {
			return decodeTuple(items, vals)
		},
	}
}

func (b *Builder[T]) clone() *Builder[T] {
	nb := *b
	nb.sel.Projection = slices.Clone(b.sel.Projection)
	nb.sel.Joins = slices.Clone(b.sel.Joins)
	nb.sel.GroupBy = slices.Clone(b.sel.GroupBy)
	nb.sel.OrderBy = slices.Clone(b.sel.OrderBy)
	return &nb
}

// From sets the primary source.
func (b *Builder[T]) From(e EntityPath) *Builder[T] {
	nb := b.clone()
	nb.sel.From = e.Source()
	return nb
}

// Join inner-joins target along rel, using the declared foreign key.
func (b *Builder[T]) Join(rel Relation, target EntityPath) *Builder[T] {
	return b.joinRelation(queryir.InnerJoin, rel, target)
}

// LeftJoin left-outer-joins target along rel. Members without a partner
// are kept with the target's columns NULL.
func (b *Builder[T]) LeftJoin(rel Relation, target EntityPath) *Builder[T] {
	return b.joinRelation(queryir.LeftJoin, rel, target)
}

// JoinOn inner-joins target on an explicit condition.
func (b *Builder[T]) JoinOn(target EntityPath, cond Predicate) *Builder[T] {
	return b.join(queryir.InnerJoin, target, cond)
}

// LeftJoinOn left-outer-joins target on an explicit condition.
func (b *Builder[T]) LeftJoinOn(target EntityPath, cond Predicate) *Builder[T] {
	return b.join(queryir.LeftJoin, target, cond)
}

func (b *Builder[T]) joinRelation(kind queryir.JoinKind, rel Relation, target EntityPath) *Builder[T] {
	on, err := rel.on(target)
	nb := b.join(kind, target, on)
	if err != nil && nb.err == nil {
		nb.err = err
	}
	return nb
}

func (b *Builder[T]) join(kind queryir.JoinKind, target EntityPath, cond Predicate) *Builder[T] {
	nb := b.clone()
	nb.sel.Joins = append(nb.sel.Joins, queryir.Join{Kind: kind, Target: target.Source(), On: cond})
	return nb
}

// On restricts the most recent join inside its ON clause. For a left join
// this filters the joined side without dropping primary rows.
func (b *Builder[T]) On(ps ...Predicate) *Builder[T] {
	nb := b.clone()
	if len(nb.sel.Joins) == 0 {
		if nb.err == nil {
			nb.err = queryir.NewBuildError(queryir.ErrCodeInvalidJoin, "On called before any join")
		}
		return nb
	}
	last := &nb.sel.Joins[len(nb.sel.Joins)-1]
	last.Extra = And(append([]Predicate{last.Extra}, ps...)...)
	return nb
}

// Where adds conditions, ANDed with any existing ones. nil is ignored.
func (b *Builder[T]) Where(ps ...Predicate) *Builder[T] {
	nb := b.clone()
	nb.sel.Where = And(append([]Predicate{nb.sel.Where}, ps...)...)
	return nb
}

// GroupBy adds grouping keys.
func (b *Builder[T]) GroupBy(es ...Projection) *Builder[T] {
	nb := b.clone()
	for _, e := range es {
		nb.sel.GroupBy = append(nb.sel.GroupBy, e.Expr())
	}
	return nb
}

// Having adds group conditions, ANDed with any existing ones.
func (b *Builder[T]) Having(ps ...Predicate) *Builder[T] {
	nb := b.clone()
	nb.sel.Having = And(append([]Predicate{nb.sel.Having}, ps...)...)
	return nb
}

// OrderBy appends ordering keys. Earlier keys take precedence.
func (b *Builder[T]) OrderBy(os ...Order) *Builder[T] {
	nb := b.clone()
	nb.sel.OrderBy = append(nb.sel.OrderBy, os...)
	return nb
}

// Offset skips the first n rows of the ordered result.
func (b *Builder[T]) Offset(n int) *Builder[T] {
	nb := b.clone()
	nb.sel.Offset = opt.Some(n)
	return nb
}

// Limit caps the number of rows returned.
func (b *Builder[T]) Limit(n int) *Builder[T] {
	nb := b.clone()
	nb.sel.Limit = opt.Some(n)
	return nb
}

// IR returns a copy of the query as built so far, without validation.
func (b *Builder[T]) IR() *queryir.Select {
	sel := b.clone().sel
	return &sel
}

// Build validates the query and returns its IR. The result is a copy;
// changing it does not affect the Builder.
func (b *Builder[T]) Build() (*queryir.Select, error) {
	if b.err != nil {
		return nil, b.err
	}
	sel := b.IR()
	if err := queryir.Validate(sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// Expr embeds the builder as a subquery, so it can be compared against:
//
//	m.Age.EqExpr(query.Select(ms.Age.Max()).From(ms))
func (b *Builder[T]) Expr() queryir.Expr {
	if b.err != nil {
		var be *queryir.BuildError
		if !errors.As(b.err, &be) {
			be = queryir.NewBuildError(queryir.ErrCodeUnsupportedNode, "%v", b.err)
		}
		return queryir.BadExpr{Err: be}
	}
	return queryir.Subquery{Query: b.IR()}
}

// Width is the number of columns one row occupies.
func (b *Builder[T]) Width() int { return b.width }

// Decode converts one row of Width() scanned values into T.
func (b *Builder[T]) Decode(vals []any) (T, error) {
	if len(vals) != b.width {
		var zero T
		return zero, fmt.Errorf("row has %d columns, want %d", len(vals), b.width)
	}
	return b.decode(vals)
}

func (b *Builder[T]) decodeAny(vals []any) (any, error) { return b.Decode(vals) }
