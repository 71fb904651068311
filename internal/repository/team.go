package repository

import (
	"context"
	"errors"

	"github.com/roach88/roster/internal/fetch"
	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/query"
	"github.com/roach88/roster/internal/store"
)

// TeamRepository reads and writes teams.
type TeamRepository struct {
	store *store.Store
	f     *fetch.Fetcher
}

// NewTeamRepository creates a TeamRepository.
func NewTeamRepository(s *store.Store, f *fetch.Fetcher) *TeamRepository {
	return &TeamRepository{store: s, f: f}
}

// Save inserts or updates t.
func (r *TeamRepository) Save(ctx context.Context, t *model.Team) error {
	return r.store.SaveTeam(ctx, t)
}

// FindByID returns the team with the given identity, if any.
func (r *TeamRepository) FindByID(ctx context.Context, id model.ID) (opt.Value[*model.Team], error) {
	t := query.Team
	return findOne(ctx, r.f, query.SelectFrom(t).Where(t.ID.Eq(int64(id))))
}

// FindByName returns the team named name. Team names are not unique;
// several matches yield fetch.ErrNonUniqueResult.
func (r *TeamRepository) FindByName(ctx context.Context, name string) (opt.Value[*model.Team], error) {
	t := query.Team
	return findOne(ctx, r.f, query.SelectFrom(t).Where(t.Name.Eq(name)))
}

// FindAll returns every team in identity order.
func (r *TeamRepository) FindAll(ctx context.Context) ([]*model.Team, error) {
	t := query.Team
	return fetch.List(ctx, r.f, query.SelectFrom(t).OrderBy(t.ID.Asc()))
}

// Members returns the members referencing team, in identity order. The
// list is computed from the members' team references on every call.
func (r *TeamRepository) Members(ctx context.Context, team *model.Team) ([]*model.Member, error) {
	m := query.Member
	return fetch.List(ctx, r.f, query.SelectFrom(m).Where(m.TeamID.Eq(int64(team.ID))).OrderBy(m.ID.Asc()))
}

// TeamCount pairs a team with the number of members referencing it.
type TeamCount struct {
	Team  *model.Team `json:"team"`
	Count int64       `json:"count"`
}

// MemberCounts returns the number of members of every team in identity
// order, including teams without members. Teams sharing a name are counted
// separately.
func (r *TeamRepository) MemberCounts(ctx context.Context) ([]TeamCount, error) {
	m, t := query.Member, query.Team
	q := query.SelectTuple(t, m.ID.Count()).
		From(t).
		LeftJoinOn(m, m.TeamID.EqExpr(t.ID)).
		GroupBy(t).
		OrderBy(t.ID.Asc())

	rows, err := fetch.List(ctx, r.f, q)
	if err != nil {
		return nil, err
	}
	out := make([]TeamCount, len(rows))
	for i, row := range rows {
		out[i] = TeamCount{Team: query.Get(row, t), Count: query.Get(row, m.ID.Count())}
	}
	return out, nil
}

func findOne[T any](ctx context.Context, f *fetch.Fetcher, b *query.Builder[T]) (opt.Value[T], error) {
	got, err := fetch.One(ctx, f, b)
	if errors.Is(err, fetch.ErrNotFound) {
		return opt.None[T](), nil
	}
	if err != nil {
		return opt.None[T](), err
	}
	return opt.Some(got), nil
}
