// Package query is the fluent, typed front end for building queries over
// members and teams.
//
// Descriptors (QMember, QTeam) are declared by hand: each attribute is a
// typed path (NumberPath, StringPath) whose methods build predicates,
// aggregates and ordering keys. A Builder collects clauses and produces a
// validated queryir.Select:
//
//	m, t := query.Member, query.Team
//	q := query.SelectTuple(m.UserName, t.Name).
//		From(m).
//		Join(m.Team, t).
//		Where(t.Name.Eq("teamA"))
//
// Builders are immutable: every clause method returns a new Builder and
// leaves the receiver untouched, so a partially built query can be shared
// and extended by several goroutines.
//
// A nil Predicate means "no constraint". And, Or and Not drop nil operands,
// which is what lets optional filters compose without special cases.
package query
