package querysql

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/roster/internal/ir"
	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/queryir"
)

// SQLCompiler compiles validated query IR to parameterized SQL.
//
// All literal values are bound as parameters, never interpolated. Nothing is
// added to the query: rows come back in the order the query asks for, and in
// storage order when it asks for none.
type SQLCompiler struct {
	dialect Dialect
}

// NewSQLCompiler creates a compiler for the given dialect.
func NewSQLCompiler(d Dialect) *SQLCompiler {
	return &SQLCompiler{dialect: d}
}

// Dialect returns the target dialect.
func (c *SQLCompiler) Dialect() Dialect { return c.dialect }

// Compile converts a query to SQL and its parameters.
// The query should have passed queryir.Validate.
func (c *SQLCompiler) Compile(q *queryir.Select) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	sb, err := c.selectBuilder(q)
	if err != nil {
		return "", nil, err
	}
	return sb.PlaceholderFormat(c.dialect.placeholders()).ToSql()
}

// CompileCount converts a query to SQL counting the rows it would return,
// ignoring its ordering and paging.
func (c *SQLCompiler) CompileCount(q *queryir.Select) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	unpaged := *q
	unpaged.OrderBy = nil
	unpaged.Offset = opt.None[int]()
	unpaged.Limit = opt.None[int]()

	inner, err := c.selectBuilder(&unpaged)
	if err != nil {
		return "", nil, err
	}
	return sq.Select("COUNT(*)").
		FromSelect(inner, "counted").
		PlaceholderFormat(c.dialect.placeholders()).
		ToSql()
}

// selectBuilder builds one query level with ? placeholders. Placeholders
// are rewritten once, on the outermost statement, so nested subqueries
// number their parameters consistently.
func (c *SQLCompiler) selectBuilder(q *queryir.Select) (sq.SelectBuilder, error) {
	sb := sq.Select()

	for _, p := range q.Projection {
		if ent, ok := p.(queryir.Entity); ok {
			for _, col := range entityColumns(ent) {
				sb = sb.Column(col)
			}
			continue
		}
		sql, args, err := c.expr(p)
		if err != nil {
			return sb, fmt.Errorf("compile projection: %w", err)
		}
		sb = sb.Column(sql, args...)
	}

	sb = sb.From(source(q.From))

	for _, j := range q.Joins {
		on, err := c.joinCondition(j)
		if err != nil {
			return sb, fmt.Errorf("compile join %s: %w", j.Target.Alias, err)
		}
		sql, args, err := on.ToSql()
		if err != nil {
			return sb, err
		}
		clause := source(j.Target) + " ON " + sql
		switch j.Kind {
		case queryir.LeftJoin:
			sb = sb.LeftJoin(clause, args...)
		default:
			sb = sb.Join(clause, args...)
		}
	}

	if q.Where != nil {
		where, err := c.predicate(q.Where)
		if err != nil {
			return sb, fmt.Errorf("compile where: %w", err)
		}
		sb = sb.Where(where)
	}

	if len(q.GroupBy) > 0 {
		keys := make([]string, 0, len(q.GroupBy))
		for _, g := range q.GroupBy {
			if ent, ok := g.(queryir.Entity); ok {
				keys = append(keys, entityColumns(ent)...)
				continue
			}
			sql, args, err := c.expr(g)
			if err != nil {
				return sb, fmt.Errorf("compile group by: %w", err)
			}
			if len(args) > 0 {
				return sb, fmt.Errorf("compile group by: %s takes parameters", queryir.Key(g))
			}
			keys = append(keys, sql)
		}
		sb = sb.GroupBy(keys...)
	}

	if q.Having != nil {
		having, err := c.predicate(q.Having)
		if err != nil {
			return sb, fmt.Errorf("compile having: %w", err)
		}
		sb = sb.Having(having)
	}

	for _, o := range q.OrderBy {
		sql, args, err := c.expr(o.Expr)
		if err != nil {
			return sb, fmt.Errorf("compile order by: %w", err)
		}
		if o.Desc {
			sql += " DESC"
		} else {
			sql += " ASC"
		}
		sb = sb.OrderByClause(sql, args...)
	}

	if lim, ok := q.Limit.Get(); ok {
		sb = sb.Limit(uint64(lim))
	}
	if off, ok := q.Offset.Get(); ok {
		if !q.Limit.IsPresent() && c.dialect == SQLite {
			// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
			sb = sb.Suffix(fmt.Sprintf("LIMIT -1 OFFSET %d", off))
		} else {
			sb = sb.Offset(uint64(off))
		}
	}

	return sb, nil
}

func source(s queryir.Source) string {
	return s.Table + " " + s.Alias
}

func entityColumns(e queryir.Entity) []string {
	cols := make([]string, len(e.Columns))
	for i, name := range e.Columns {
		cols[i] = e.Source + "." + name
	}
	return cols
}

func (c *SQLCompiler) joinCondition(j queryir.Join) (sq.Sqlizer, error) {
	on, err := c.predicate(j.On)
	if err != nil {
		return nil, err
	}
	if j.Extra == nil {
		return on, nil
	}
	extra, err := c.predicate(j.Extra)
	if err != nil {
		return nil, err
	}
	onSQL, onArgs, err := on.ToSql()
	if err != nil {
		return nil, err
	}
	extraSQL, extraArgs, err := extra.ToSql()
	if err != nil {
		return nil, err
	}
	return sq.Expr(onSQL+" AND "+extraSQL, append(onArgs, extraArgs...)...), nil
}

// expr compiles a scalar expression to a SQL fragment.
func (c *SQLCompiler) expr(e queryir.Expr) (string, []any, error) {
	switch expr := e.(type) {
	case queryir.Column:
		return expr.Source + "." + expr.Name, nil, nil
	case queryir.Entity:
		return "", nil, fmt.Errorf("entity %s is not a scalar", expr.Source)
	case queryir.Literal:
		param, err := ir.Param(expr.Value)
		if err != nil {
			return "", nil, err
		}
		return "?", []any{param}, nil
	case queryir.Aggregate:
		arg := expr.Arg
		if ent, ok := arg.(queryir.Entity); ok {
			arg = ent.Identity()
		}
		sql, args, err := c.expr(arg)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s(%s)", expr.Func, sql), args, nil
	case queryir.Subquery:
		sb, err := c.selectBuilder(expr.Query)
		if err != nil {
			return "", nil, fmt.Errorf("compile subquery: %w", err)
		}
		sql, args, err := sb.ToSql()
		if err != nil {
			return "", nil, err
		}
		return "(" + sql + ")", args, nil
	case queryir.BadExpr:
		return "", nil, expr.Err
	default:
		return "", nil, fmt.Errorf("unsupported expression type: %T", e)
	}
}

// predicate compiles a predicate to a squirrel condition.
func (c *SQLCompiler) predicate(p queryir.Predicate) (sq.Sqlizer, error) {
	switch pred := p.(type) {
	case queryir.Compare:
		left, largs, err := c.expr(pred.Left)
		if err != nil {
			return nil, err
		}
		right, rargs, err := c.expr(pred.Right)
		if err != nil {
			return nil, err
		}
		return sq.Expr(fmt.Sprintf("%s %s %s", left, pred.Op, right), append(largs, rargs...)...), nil

	case queryir.Between:
		x, args, err := c.expr(pred.Expr)
		if err != nil {
			return nil, err
		}
		lo, loArgs, err := c.expr(pred.Low)
		if err != nil {
			return nil, err
		}
		hi, hiArgs, err := c.expr(pred.High)
		if err != nil {
			return nil, err
		}
		args = append(append(args, loArgs...), hiArgs...)
		return sq.Expr(fmt.Sprintf("%s BETWEEN %s AND %s", x, lo, hi), args...), nil

	case queryir.In:
		return c.in(pred)

	case queryir.IsNull:
		x, args, err := c.expr(pred.Expr)
		if err != nil {
			return nil, err
		}
		if pred.Negated {
			return sq.Expr(x+" IS NOT NULL", args...), nil
		}
		return sq.Expr(x+" IS NULL", args...), nil

	case queryir.And:
		conj := make(sq.And, 0, len(pred.Predicates))
		for _, sub := range pred.Predicates {
			s, err := c.predicate(sub)
			if err != nil {
				return nil, err
			}
			conj = append(conj, s)
		}
		return conj, nil

	case queryir.Or:
		disj := make(sq.Or, 0, len(pred.Predicates))
		for _, sub := range pred.Predicates {
			s, err := c.predicate(sub)
			if err != nil {
				return nil, err
			}
			disj = append(disj, s)
		}
		return disj, nil

	case queryir.Not:
		inner, err := c.predicate(pred.Predicate)
		if err != nil {
			return nil, err
		}
		sql, args, err := inner.ToSql()
		if err != nil {
			return nil, err
		}
		switch pred.Predicate.(type) {
		case queryir.And, queryir.Or:
			// squirrel already parenthesizes conjunctions
			return sq.Expr("NOT "+sql, args...), nil
		default:
			return sq.Expr("NOT ("+sql+")", args...), nil
		}

	case nil:
		return nil, fmt.Errorf("nil predicate")

	default:
		return nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) in(pred queryir.In) (sq.Sqlizer, error) {
	x, args, err := c.expr(pred.Expr)
	if err != nil {
		return nil, err
	}
	op := "IN"
	if pred.Negated {
		op = "NOT IN"
	}

	if len(pred.Values) == 0 {
		// x IN () is not valid SQL; an empty set matches nothing.
		if pred.Negated {
			return sq.Expr("(1=1)"), nil
		}
		return sq.Expr("(1=0)"), nil
	}

	if len(pred.Values) == 1 {
		if _, ok := pred.Values[0].(queryir.Subquery); ok {
			sub, subArgs, err := c.expr(pred.Values[0])
			if err != nil {
				return nil, err
			}
			return sq.Expr(fmt.Sprintf("%s %s %s", x, op, sub), append(args, subArgs...)...), nil
		}
	}

	items := make([]string, len(pred.Values))
	for i, v := range pred.Values {
		sql, vargs, err := c.expr(v)
		if err != nil {
			return nil, err
		}
		items[i] = sql
		args = append(args, vargs...)
	}
	return sq.Expr(fmt.Sprintf("%s %s (%s)", x, op, strings.Join(items, ", ")), args...), nil
}
