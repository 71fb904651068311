// Package filter turns sets of optional search inputs into query
// predicates. Absent inputs contribute nothing; present inputs contribute
// one condition each, combined with AND in a fixed order.
package filter

import (
	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/query"
)

// When returns cond(v) when v is present and nil otherwise. It is the
// building block for optional conditions:
//
//	filter.When(age, query.Member.Age.Eq)
func When[T any](v opt.Value[T], cond func(T) query.Predicate) query.Predicate {
	x, ok := v.Get()
	if !ok {
		return nil
	}
	return cond(x)
}

// MemberFilter is the member search form. Every field is optional.
type MemberFilter struct {
	Name     opt.Value[string]
	Age      opt.Value[int]
	TeamName opt.Value[string]
	MinAge   opt.Value[int]
	MaxAge   opt.Value[int]
}

// Conditions returns one predicate per present field, in field order.
// TeamName refers to t, so the caller must join m's team as t when
// NeedsTeam reports true.
func (f MemberFilter) Conditions(m *query.QMember, t *query.QTeam) []query.Predicate {
	all := []query.Predicate{
		When(f.Name, m.UserName.Eq),
		When(f.Age, m.Age.Eq),
		When(f.TeamName, t.Name.Eq),
		When(f.MinAge, m.Age.Goe),
		When(f.MaxAge, m.Age.Loe),
	}
	out := all[:0]
	for _, p := range all {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Predicate ANDs the present conditions. It is nil when no field is set,
// which leaves a query unconstrained.
func (f MemberFilter) Predicate(m *query.QMember, t *query.QTeam) query.Predicate {
	return query.And(f.Conditions(m, t)...)
}

// NeedsTeam reports whether the predicate references the team.
func (f MemberFilter) NeedsTeam() bool {
	return f.TeamName.IsPresent()
}

// IsEmpty reports whether no field is set.
func (f MemberFilter) IsEmpty() bool {
	return !f.Name.IsPresent() && !f.Age.IsPresent() && !f.TeamName.IsPresent() &&
		!f.MinAge.IsPresent() && !f.MaxAge.IsPresent()
}

// Matches evaluates the filter in memory. teamName is the name of the
// member's team, or absent when the member has none.
func (f MemberFilter) Matches(name string, age int, teamName opt.Value[string]) bool {
	if v, ok := f.Name.Get(); ok && v != name {
		return false
	}
	if v, ok := f.Age.Get(); ok && v != age {
		return false
	}
	if v, ok := f.TeamName.Get(); ok {
		tn, has := teamName.Get()
		if !has || tn != v {
			return false
		}
	}
	if v, ok := f.MinAge.Get(); ok && age < v {
		return false
	}
	if v, ok := f.MaxAge.Get(); ok && age > v {
		return false
	}
	return true
}
