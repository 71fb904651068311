package repository

import (
	"context"

	"github.com/roach88/roster/internal/fetch"
	"github.com/roach88/roster/internal/filter"
	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/query"
	"github.com/roach88/roster/internal/store"
)

// MemberRepository reads and writes members.
type MemberRepository struct {
	store *store.Store
	f     *fetch.Fetcher
}

// NewMemberRepository creates a MemberRepository.
func NewMemberRepository(s *store.Store, f *fetch.Fetcher) *MemberRepository {
	return &MemberRepository{store: s, f: f}
}

// Save inserts or updates m.
func (r *MemberRepository) Save(ctx context.Context, m *model.Member) error {
	return r.store.SaveMember(ctx, m)
}

// Delete removes the member with the given identity.
func (r *MemberRepository) Delete(ctx context.Context, id model.ID) error {
	return r.store.DeleteMember(ctx, id)
}

// FindByID returns the member with the given identity, if any.
func (r *MemberRepository) FindByID(ctx context.Context, id model.ID) (opt.Value[*model.Member], error) {
	m := query.Member
	return findOne(ctx, r.f, query.SelectFrom(m).Where(m.ID.Eq(int64(id))))
}

// FindAll returns every member in identity order.
func (r *MemberRepository) FindAll(ctx context.Context) ([]*model.Member, error) {
	m := query.Member
	return fetch.List(ctx, r.f, query.SelectFrom(m).OrderBy(m.ID.Asc()))
}

// FindByName returns the members named name, in identity order.
func (r *MemberRepository) FindByName(ctx context.Context, name string) ([]*model.Member, error) {
	m := query.Member
	return fetch.List(ctx, r.f, query.SelectFrom(m).Where(m.UserName.Eq(name)).OrderBy(m.ID.Asc()))
}

// FindUser filters by name and age, each optional. With neither present it
// returns every member.
func (r *MemberRepository) FindUser(ctx context.Context, name opt.Value[string], age opt.Value[int]) ([]*model.Member, error) {
	return r.Search(ctx, filter.MemberFilter{Name: name, Age: age}, Page{Sort: []query.Order{query.Member.ID.Asc()}})
}

// Search returns the members matching f, ordered and windowed by page.
func (r *MemberRepository) Search(ctx context.Context, f filter.MemberFilter, page Page) ([]*model.Member, error) {
	return fetch.List(ctx, r.f, applyPage(searchQuery(f), page))
}

// SearchOne returns the only member matching f. It fails with
// fetch.ErrNotFound or fetch.ErrNonUniqueResult otherwise.
func (r *MemberRepository) SearchOne(ctx context.Context, f filter.MemberFilter) (*model.Member, error) {
	return fetch.One(ctx, r.f, searchQuery(f))
}

// SearchFirst returns the first member matching f in page order. The
// page's limit is ignored.
func (r *MemberRepository) SearchFirst(ctx context.Context, f filter.MemberFilter, page Page) (opt.Value[*model.Member], error) {
	page.Limit = opt.None[int]()
	return fetch.First(ctx, r.f, applyPage(searchQuery(f), page))
}

// Count returns the number of members matching f.
func (r *MemberRepository) Count(ctx context.Context, f filter.MemberFilter) (int64, error) {
	return fetch.Count(ctx, r.f, searchQuery(f))
}

func searchQuery(f filter.MemberFilter) *query.Builder[*model.Member] {
	m, t := query.Member, query.Team
	b := query.SelectFrom(m)
	if f.NeedsTeam() {
		b = b.Join(m.Team, t)
	}
	return b.Where(f.Predicate(m, t))
}

// Oldest returns the members whose age equals the maximum age.
func (r *MemberRepository) Oldest(ctx context.Context) ([]*model.Member, error) {
	m, ms := query.Member, query.MemberSub
	maxAge := query.Select(ms.Age.Max()).From(ms)
	return fetch.List(ctx, r.f, query.SelectFrom(m).Where(m.Age.EqExpr(maxAge)).OrderBy(m.ID.Asc()))
}

// AgeAtLeastAverage returns the members at least as old as the average.
func (r *MemberRepository) AgeAtLeastAverage(ctx context.Context) ([]*model.Member, error) {
	m, ms := query.Member, query.MemberSub
	avgAge := query.Select(ms.Age.Avg()).From(ms)
	return fetch.List(ctx, r.f, query.SelectFrom(m).Where(m.Age.Float().GoeExpr(avgAge)).OrderBy(m.ID.Asc()))
}
