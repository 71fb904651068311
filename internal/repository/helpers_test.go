package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/roster/internal/config"
	"github.com/roach88/roster/internal/fetch"
	"github.com/roach88/roster/internal/fixture"
	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/store"
)

type testRepos struct {
	store   *store.Store
	members *MemberRepository
	teams   *TeamRepository
	loaded  *fixture.Loaded
}

// openRepos wires both repositories over s and seeds the default roster.
func openRepos(t *testing.T, s *store.Store) *testRepos {
	t.Helper()

	loaded, err := fixture.Default().Apply(context.Background(), s)
	require.NoError(t, err)

	f := fetch.New(s, zap.NewNop().Sugar())
	return &testRepos{
		store:   s,
		members: NewMemberRepository(s, f),
		teams:   NewTeamRepository(s, f),
		loaded:  loaded,
	}
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()

	s, err := store.Open(context.Background(), config.SQLite(filepath.Join(t.TempDir(), "roster.db")), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return openRepos(t, s)
}

func userNames(members []*model.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.UserName
	}
	return out
}
