package queryir

import "github.com/roach88/roster/internal/schema"

// Validate checks a query for structural errors before it reaches storage.
//
// Rules:
//  1. The projection is not empty.
//  2. Every source names a declared table and has an alias; aliases are
//     unique within a query and do not shadow aliases of an enclosing query.
//  3. Every column reference names an alias in scope (own sources, or the
//     enclosing query's sources for correlated subqueries) and a column
//     declared on that alias's table.
//  4. Joins carry a condition.
//  5. Aggregates appear only in the projection, HAVING and ORDER BY. SUM
//     and AVG take numeric columns.
//  6. HAVING requires an aggregate query (GROUP BY or aggregate projection).
//  7. In an aggregate query, each non-aggregated projection is a grouping key.
//  8. A subquery in scalar position (projection, comparison, grouping or
//     ordering key) projects exactly one column.
//  9. Offset and limit are non-negative.
//
// A subquery that returns more than one row in scalar position cannot be
// detected without executing it; that check is left to the storage engine.
//
// Validate returns the first violation found as a *BuildError, or nil.
// Validate is a pure function with no side effects.
func Validate(q *Select) error {
	v := &validator{}
	v.validateSelect(q, map[string]*schema.Table{})

	if len(v.errs) == 0 {
		return nil
	}
	return v.errs[0]
}

// validator accumulates errors during traversal.
type validator struct {
	errs []*BuildError
}

// addError appends a build error.
func (v *validator) addError(code BuildErrorCode, format string, args ...any) {
	v.errs = append(v.errs, NewBuildError(code, format, args...))
}

// scope maps the aliases visible at one query level to their tables.
type scope map[string]*schema.Table

// validateSelect validates one query level. outer holds the aliases of the
// enclosing queries.
func (v *validator) validateSelect(q *Select, outer scope) {
	if q == nil {
		v.addError(ErrCodeUnsupportedNode, "nil query")
		return
	}

	// Rule 1
	if len(q.Projection) == 0 {
		v.addError(ErrCodeEmptyProjection, "query on %q selects nothing", q.From.Table)
	}

	// Rule 2
	sc := make(scope, len(outer)+1+len(q.Joins))
	for alias, tbl := range outer {
		sc[alias] = tbl
	}
	own := make(map[string]bool, 1+len(q.Joins))
	for _, src := range q.Sources() {
		if src.Table == "" || src.Alias == "" {
			v.addError(ErrCodeUnknownSource, "source needs both table and alias (table=%q, alias=%q)", src.Table, src.Alias)
			continue
		}
		if own[src.Alias] {
			v.addError(ErrCodeAmbiguousAlias, "alias %q is declared twice", src.Alias)
			continue
		}
		if _, ok := outer[src.Alias]; ok {
			v.addError(ErrCodeAmbiguousAlias, "alias %q shadows an alias of the enclosing query", src.Alias)
			continue
		}
		tbl, ok := schema.LookupTable(src.Table)
		if !ok {
			v.addError(ErrCodeUnknownSource, "table %q is not declared", src.Table)
			continue
		}
		own[src.Alias] = true
		sc[src.Alias] = tbl
	}

	// Rule 4
	for _, j := range q.Joins {
		if j.Kind != InnerJoin && j.Kind != LeftJoin {
			v.addError(ErrCodeInvalidJoin, "unknown join kind %q", j.Kind)
		}
		if j.On == nil {
			v.addError(ErrCodeInvalidJoin, "join to %s %s has no condition", j.Target.Table, j.Target.Alias)
		}
		v.validatePredicate(j.On, sc, "ON")
		v.validatePredicate(j.Extra, sc, "ON")
	}

	v.validatePredicate(q.Where, sc, "WHERE")

	grouped := make(map[string]bool, len(q.GroupBy))
	for _, g := range q.GroupBy {
		if ContainsAggregate(g) {
			v.addError(ErrCodeMisplacedAggregate, "aggregate %s is not allowed in GROUP BY", Key(g))
			continue
		}
		v.validateScalar(g, sc, "GROUP BY")
		grouped[Key(g)] = true
	}

	aggregate := q.IsAggregate()

	// Rule 6
	if q.Having != nil {
		if !aggregate {
			v.addError(ErrCodeHavingWithoutGrouping, "HAVING requires GROUP BY or an aggregate projection")
		}
		v.validatePredicate(q.Having, sc, "HAVING")
	}

	// Rule 7
	for _, p := range q.Projection {
		v.validateScalar(p, sc, "SELECT")
		if aggregate && !ContainsAggregate(p) && !grouped[Key(p)] {
			v.addError(ErrCodeUngroupedProjection, "%s is neither aggregated nor a grouping key", Key(p))
		}
	}

	for _, o := range q.OrderBy {
		v.validateScalar(o.Expr, sc, "ORDER BY")
	}

	// Rule 9
	if off, ok := q.Offset.Get(); ok && off < 0 {
		v.addError(ErrCodeInvalidPaging, "offset must be >= 0, got %d", off)
	}
	if lim, ok := q.Limit.Get(); ok && lim < 0 {
		v.addError(ErrCodeInvalidPaging, "limit must be >= 0, got %d", lim)
	}
}

// aggregateAllowed reports whether a clause may contain aggregates (Rule 5).
func aggregateAllowed(clause string) bool {
	switch clause {
	case "SELECT", "HAVING", "ORDER BY":
		return true
	default:
		return false
	}
}

// validateExpr validates an expression used in the given clause.
func (v *validator) validateExpr(e Expr, sc scope, clause string) {
	switch expr := e.(type) {
	case Column:
		v.checkColumn(expr, sc, clause)
	case Entity:
		if tbl := v.checkSource(expr.Source, sc, clause); tbl != nil {
			for _, name := range expr.Columns {
				if _, ok := tbl.Column(name); !ok {
					v.addError(ErrCodeUnknownColumn, "%s has no column %q", tbl.Name, name)
				}
			}
		}
	case Literal:
		// Always valid
	case Aggregate:
		if !aggregateAllowed(clause) {
			v.addError(ErrCodeMisplacedAggregate, "aggregate %s is not allowed in %s", Key(expr), clause)
			return
		}
		switch arg := expr.Arg.(type) {
		case Column:
			// Arguments are evaluated per row, so they validate like WHERE
			// expressions: no nested aggregates.
			col, ok := v.checkColumn(arg, sc, "WHERE")
			if ok && (expr.Func == AggSum || expr.Func == AggAvg) && col.Kind != schema.KindInt {
				v.addError(ErrCodeNonNumericAggregate, "%s needs a numeric column, %s is %s", expr.Func, Key(arg), col.Kind)
			}
		case Entity:
			if expr.Func != AggCount {
				v.addError(ErrCodeNonNumericAggregate, "%s cannot take entity %s", expr.Func, arg.Source)
			}
			v.validateExpr(arg, sc, "WHERE")
		default:
			v.addError(ErrCodeMisplacedAggregate, "aggregate %s must take a column or entity", Key(expr))
		}
	case Subquery:
		v.validateSelect(expr.Query, sc)
	case BadExpr:
		v.errs = append(v.errs, expr.Err)
	case nil:
		v.addError(ErrCodeUnsupportedNode, "nil expression in %s", clause)
	default:
		v.addError(ErrCodeUnsupportedNode, "unknown expression type %T in %s", e, clause)
	}
}

// checkSource enforces the alias half of Rule 3 and returns the alias's
// table, or nil when it is not in scope.
func (v *validator) checkSource(alias string, sc scope, clause string) *schema.Table {
	tbl, ok := sc[alias]
	if !ok {
		v.addError(ErrCodeUnknownSource, "alias %q referenced in %s is not in scope", alias, clause)
		return nil
	}
	return tbl
}

// checkColumn enforces Rule 3 for one column reference.
func (v *validator) checkColumn(c Column, sc scope, clause string) (schema.Column, bool) {
	tbl := v.checkSource(c.Source, sc, clause)
	if tbl == nil {
		return schema.Column{}, false
	}
	col, ok := tbl.Column(c.Name)
	if !ok {
		v.addError(ErrCodeUnknownColumn, "%s (%s) has no column %q", c.Source, tbl.Name, c.Name)
	}
	return col, ok
}

// validateScalar validates an expression in scalar position (Rule 8).
func (v *validator) validateScalar(e Expr, sc scope, clause string) {
	if sub, ok := e.(Subquery); ok {
		v.checkSubqueryArity(sub)
	}
	v.validateExpr(e, sc, clause)
}

// checkSubqueryArity requires exactly one projected column.
func (v *validator) checkSubqueryArity(sub Subquery) {
	if sub.Query == nil {
		return
	}
	if n := len(sub.Query.Projection); n != 1 {
		v.addError(ErrCodeScalarSubqueryArity, "scalar subquery on %q projects %d expressions, want 1", sub.Query.From.Table, n)
		return
	}
	if ent, ok := sub.Query.Projection[0].(Entity); ok {
		v.addError(ErrCodeScalarSubqueryArity, "scalar subquery projects entity %s (%d columns), want 1 column", ent.Source, len(ent.Columns))
	}
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p Predicate, sc scope, clause string) {
	if p == nil {
		return // nil predicates are valid (no filter)
	}

	switch pred := p.(type) {
	case Compare:
		v.validateScalar(pred.Left, sc, clause)
		v.validateScalar(pred.Right, sc, clause)
	case Between:
		v.validateScalar(pred.Expr, sc, clause)
		v.validateScalar(pred.Low, sc, clause)
		v.validateScalar(pred.High, sc, clause)
	case In:
		v.validateScalar(pred.Expr, sc, clause)
		for _, val := range pred.Values {
			if sub, ok := val.(Subquery); ok {
				if len(pred.Values) != 1 {
					v.addError(ErrCodeScalarSubqueryArity, "IN subquery must be the only value, got %d values", len(pred.Values))
				}
				v.checkSubqueryArity(sub)
			}
			v.validateExpr(val, sc, clause)
		}
	case IsNull:
		v.validateScalar(pred.Expr, sc, clause)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub, sc, clause)
		}
	case Or:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub, sc, clause)
		}
	case Not:
		v.validatePredicate(pred.Predicate, sc, clause)
	default:
		v.addError(ErrCodeUnsupportedNode, "unknown predicate type %T in %s", p, clause)
	}
}
