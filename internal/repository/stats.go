package repository

import (
	"context"

	"github.com/roach88/roster/internal/fetch"
	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/query"
)

// AgeStats summarizes member ages.
type AgeStats struct {
	Count int64   `json:"count"`
	Sum   int     `json:"sum"`
	Avg   float64 `json:"avg"`
	Max   int     `json:"max"`
	Min   int     `json:"min"`
}

// AgeGroup is the number of members sharing one age.
type AgeGroup struct {
	Age   int   `json:"age"`
	Count int64 `json:"count"`
}

// RosterEntry pairs a member with its team. Team is nil when the member
// has no team, or when the team was filtered out of the join.
type RosterEntry struct {
	Member *model.Member `json:"member"`
	Team   *model.Team   `json:"team"`
}

// AgeStats aggregates over every member. With no members, Count is zero
// and the other fields are zero values.
func (r *MemberRepository) AgeStats(ctx context.Context) (AgeStats, error) {
	m := query.Member
	count, sum, avg, maxAge, minAge := m.Count(), m.Age.Sum(), m.Age.Avg(), m.Age.Max(), m.Age.Min()

	row, err := fetch.One(ctx, r.f, query.SelectTuple(count, sum, avg, maxAge, minAge).From(m))
	if err != nil {
		return AgeStats{}, err
	}
	return AgeStats{
		Count: query.Get(row, count),
		Sum:   query.Get(row, sum),
		Avg:   query.Get(row, avg),
		Max:   query.Get(row, maxAge),
		Min:   query.Get(row, minAge),
	}, nil
}

// AgeGroups counts members per age, keeping ages shared by at least
// minCount members, youngest first.
func (r *MemberRepository) AgeGroups(ctx context.Context, minCount int64) ([]AgeGroup, error) {
	m := query.Member
	q := query.SelectTuple(m.Age, m.Count()).
		From(m).
		GroupBy(m.Age).
		Having(m.Count().Goe(minCount)).
		OrderBy(m.Age.Asc())

	rows, err := fetch.List(ctx, r.f, q)
	if err != nil {
		return nil, err
	}
	out := make([]AgeGroup, len(rows))
	for i, row := range rows {
		out[i] = AgeGroup{Age: query.Get(row, m.Age), Count: query.Get(row, m.Count())}
	}
	return out, nil
}

// Roster lists every member with its team, in identity order. When
// teamName is present only that team is joined; members of other teams
// are still listed, without a team.
func (r *MemberRepository) Roster(ctx context.Context, teamName opt.Value[string]) ([]RosterEntry, error) {
	m, t := query.Member, query.Team
	q := query.SelectTuple(m, t).
		From(m).
		LeftJoin(m.Team, t).
		OrderBy(m.ID.Asc())
	if name, ok := teamName.Get(); ok {
		q = q.On(t.Name.Eq(name))
	}

	rows, err := fetch.List(ctx, r.f, q)
	if err != nil {
		return nil, err
	}
	out := make([]RosterEntry, len(rows))
	for i, row := range rows {
		out[i] = RosterEntry{Member: query.Get(row, m), Team: query.Get(row, t)}
	}
	return out, nil
}
