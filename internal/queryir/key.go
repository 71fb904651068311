package queryir

import (
	"strconv"
	"strings"

	"github.com/roach88/roster/internal/ir"
)

// Key renders an expression to a stable identity string. Two expressions
// share a key only when they are structurally equal; a subquery key covers
// every clause of the nested query.
//
//	Column{m, age}                 → m.age
//	Entity{m, ...}                 → m.*
//	Aggregate{MAX, Column{m, age}} → MAX(m.age)
//	Literal{Int(2)}                → 2
func Key(e Expr) string {
	var b strings.Builder
	writeKey(&b, e)
	return b.String()
}

func writeKey(b *strings.Builder, e Expr) {
	switch expr := e.(type) {
	case Column:
		b.WriteString(expr.Source)
		b.WriteByte('.')
		b.WriteString(expr.Name)
	case Entity:
		b.WriteString(expr.Source)
		b.WriteString(".*")
	case Literal:
		b.WriteString(ir.Key(expr.Value))
	case Aggregate:
		b.WriteString(string(expr.Func))
		b.WriteByte('(')
		writeKey(b, expr.Arg)
		b.WriteByte(')')
	case Subquery:
		b.WriteByte('(')
		writeSelectKey(b, expr.Query)
		b.WriteByte(')')
	case BadExpr:
		b.WriteString("<bad>")
	case nil:
		b.WriteString("<nil>")
	default:
		b.WriteString("<unknown>")
	}
}

func writeSelectKey(b *strings.Builder, q *Select) {
	if q == nil {
		b.WriteString("<nil>")
		return
	}
	b.WriteString("SELECT ")
	writeKeyList(b, q.Projection)
	b.WriteString(" FROM ")
	writeSourceKey(b, q.From)

	for _, j := range q.Joins {
		b.WriteByte(' ')
		b.WriteString(string(j.Kind))
		b.WriteString(" JOIN ")
		writeSourceKey(b, j.Target)
		b.WriteString(" ON ")
		writePredicateKey(b, j.On)
		if j.Extra != nil {
			b.WriteString(" AND ")
			writePredicateKey(b, j.Extra)
		}
	}
	if q.Where != nil {
		b.WriteString(" WHERE ")
		writePredicateKey(b, q.Where)
	}
	if len(q.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		writeKeyList(b, q.GroupBy)
	}
	if q.Having != nil {
		b.WriteString(" HAVING ")
		writePredicateKey(b, q.Having)
	}
	for i, o := range q.OrderBy {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		writeKey(b, o.Expr)
		if o.Desc {
			b.WriteString(" DESC")
		}
	}
	if lim, ok := q.Limit.Get(); ok {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(lim))
	}
	if off, ok := q.Offset.Get(); ok {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(off))
	}
}

func writeSourceKey(b *strings.Builder, s Source) {
	b.WriteString(s.Table)
	b.WriteByte(' ')
	b.WriteString(s.Alias)
}

func writeKeyList(b *strings.Builder, es []Expr) {
	for i, e := range es {
		if i > 0 {
			b.WriteString(", ")
		}
		writeKey(b, e)
	}
}

func writePredicateKey(b *strings.Builder, p Predicate) {
	switch pred := p.(type) {
	case Compare:
		writeKey(b, pred.Left)
		b.WriteByte(' ')
		b.WriteString(string(pred.Op))
		b.WriteByte(' ')
		writeKey(b, pred.Right)
	case Between:
		writeKey(b, pred.Expr)
		b.WriteString(" BETWEEN ")
		writeKey(b, pred.Low)
		b.WriteString(" AND ")
		writeKey(b, pred.High)
	case In:
		writeKey(b, pred.Expr)
		if pred.Negated {
			b.WriteString(" NOT")
		}
		b.WriteString(" IN [")
		writeKeyList(b, pred.Values)
		b.WriteByte(']')
	case IsNull:
		writeKey(b, pred.Expr)
		if pred.Negated {
			b.WriteString(" IS NOT NULL")
		} else {
			b.WriteString(" IS NULL")
		}
	case And:
		writePredicateList(b, "AND", pred.Predicates)
	case Or:
		writePredicateList(b, "OR", pred.Predicates)
	case Not:
		b.WriteString("NOT(")
		writePredicateKey(b, pred.Predicate)
		b.WriteByte(')')
	case nil:
		b.WriteString("<nil>")
	default:
		b.WriteString("<unknown>")
	}
}

func writePredicateList(b *strings.Builder, op string, ps []Predicate) {
	b.WriteString(op)
	b.WriteByte('(')
	for i, p := range ps {
		if i > 0 {
			b.WriteString(", ")
		}
		writePredicateKey(b, p)
	}
	b.WriteByte(')')
}
