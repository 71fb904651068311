// Package queryir provides the query intermediate representation (IR) that
// sits between the fluent builder and the SQL compiler.
//
// ARCHITECTURE:
//
//	[query.Builder] → [queryir.Select] → [querysql] → [storage]
//	                        ↓
//	                 queryir.Validate (BuildError before any storage call)
//
// A Select carries every clause of one query: projection, source, joins,
// filter, grouping, having, ordering and paging. The compiler applies them in
// relational evaluation order: source → join → filter → grouping → having →
// projection → ordering → paging.
//
// SEALED INTERFACES:
//
// Expr and Predicate are sealed with marker methods. Only types in this
// package implement them, so the compiler and validator switch over a closed
// set of node types:
//
//	switch e := expr.(type) {
//	case Column:
//	case Entity:
//	case Literal:
//	case Aggregate:
//	case Subquery:
//	}
//
// EXPRESSION IDENTITY:
//
// Key renders any Expr to a stable string. Two expressions built
// independently from the same descriptors have the same key, which is how
// tuple values are looked up by expression rather than by position and how
// grouping membership is checked.
package queryir
