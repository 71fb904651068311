package queryir

import (
	"github.com/roach88/roster/internal/ir"
	"github.com/roach88/roster/internal/opt"
)

// Expr is a value-producing node: a column, an entity, a literal, an
// aggregate or a scalar subquery.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Predicate is a boolean condition over the rows in scope.
// A nil Predicate means "no constraint".
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Column references one attribute of an aliased source.
//
//	Column{Source: "m", Name: "age"}  →  m.age
type Column struct {
	Source string // alias of the source the column belongs to
	Name   string
}

func (Column) exprNode() {}

// Entity references every column of an aliased source, in table order.
// Projecting an Entity yields one decoded entity per row; the compiler expands
// it into the individual columns.
type Entity struct {
	Source  string
	Table   string
	Columns []string // first column is the identity
}

func (Entity) exprNode() {}

// Identity returns the identity column of the entity.
func (e Entity) Identity() Column {
	return Column{Source: e.Source, Name: e.Columns[0]}
}

// Literal is a constant compared against. Always compiled as a bound parameter.
type Literal struct {
	Value ir.Value
}

func (Literal) exprNode() {}

// AggFunc names an aggregate function.
type AggFunc string

const (
	AggCount AggFunc = "COUNT"
	AggSum   AggFunc = "SUM"
	AggAvg   AggFunc = "AVG"
	AggMax   AggFunc = "MAX"
	AggMin   AggFunc = "MIN"
)

// Aggregate applies an aggregate function to a column.
// COUNT over an Entity counts its identity column.
type Aggregate struct {
	Func AggFunc
	Arg  Expr // Column or Entity
}

func (Aggregate) exprNode() {}

// Subquery nests an independently built query. In scalar position it must
// project exactly one column.
type Subquery struct {
	Query *Select
}

func (Subquery) exprNode() {}

// BadExpr stands in for an expression whose construction failed, such as a
// subquery whose builder recorded an error. Validate reports Err.
type BadExpr struct {
	Err *BuildError
}

func (BadExpr) exprNode() {}

// CompareOp is a binary comparison operator.
type CompareOp string

const (
	OpEq   CompareOp = "="
	OpNe   CompareOp = "<>"
	OpLt   CompareOp = "<"
	OpLe   CompareOp = "<="
	OpGt   CompareOp = ">"
	OpGe   CompareOp = ">="
	OpLike CompareOp = "LIKE"
)

// Compare is <left> <op> <right>.
type Compare struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (Compare) predicateNode() {}

// Between is <expr> BETWEEN <low> AND <high>, bounds inclusive.
type Between struct {
	Expr Expr
	Low  Expr
	High Expr
}

func (Between) predicateNode() {}

// In is <expr> [NOT] IN (<values>). Values may be literals or a single
// one-column subquery.
type In struct {
	Expr    Expr
	Values  []Expr
	Negated bool
}

func (In) predicateNode() {}

// IsNull is <expr> IS [NOT] NULL.
type IsNull struct {
	Expr    Expr
	Negated bool
}

func (IsNull) predicateNode() {}

// And is a conjunction. An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is a disjunction. An empty Or is always false.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Not negates a predicate.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}

// Source is an aliased table.
type Source struct {
	Table string
	Alias string
}

// JoinKind selects inner or left outer join semantics.
type JoinKind string

const (
	InnerJoin JoinKind = "INNER"
	LeftJoin  JoinKind = "LEFT"
)

// Join attaches Target to the query.
//
// On is the join condition (the foreign key equality when the join follows a
// relation). Extra further restricts the joined side inside the ON clause:
// for a LEFT join, rows of the primary side without a matching partner are
// kept with the joined columns NULL.
type Join struct {
	Kind   JoinKind
	Target Source
	On     Predicate
	Extra  Predicate
}

// Order is one ORDER BY key. Keys are applied in slice order; later keys
// break ties of earlier ones.
type Order struct {
	Expr Expr
	Desc bool
}

// Select is a complete query.
type Select struct {
	Projection []Expr
	From       Source
	Joins      []Join
	Where      Predicate
	GroupBy    []Expr
	Having     Predicate
	OrderBy    []Order
	Offset     opt.Value[int]
	Limit      opt.Value[int]
}

// Sources returns the query's own sources: From followed by join targets.
func (s *Select) Sources() []Source {
	out := make([]Source, 0, 1+len(s.Joins))
	out = append(out, s.From)
	for _, j := range s.Joins {
		out = append(out, j.Target)
	}
	return out
}

// IsAggregate reports whether the query groups rows, either explicitly or
// through an aggregate in its projection.
func (s *Select) IsAggregate() bool {
	if len(s.GroupBy) > 0 {
		return true
	}
	for _, e := range s.Projection {
		if ContainsAggregate(e) {
			return true
		}
	}
	return false
}

// ContainsAggregate reports whether e is or contains an aggregate of the
// current query level. Aggregates inside a subquery belong to the subquery.
func ContainsAggregate(e Expr) bool {
	_, ok := e.(Aggregate)
	return ok
}
