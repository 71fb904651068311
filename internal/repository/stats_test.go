package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/roster/internal/config"
	"github.com/roach88/roster/internal/fetch"
	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/store"
)

func TestAgeStats(t *testing.T) {
	r := setupRepos(t)

	got, err := r.members.AgeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.Count)
	assert.Equal(t, 410, got.Sum)
	assert.InDelta(t, 410.0/12.0, got.Avg, 1e-9)
	assert.Equal(t, 80, got.Max)
	assert.Equal(t, 10, got.Min)
}

func TestAgeStats_Empty(t *testing.T) {
	s, err := store.Open(context.Background(), config.SQLite(filepath.Join(t.TempDir(), "empty.db")), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	members := NewMemberRepository(s, fetch.New(s, nil))
	got, err := members.AgeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, AgeStats{}, got)
}

func TestAgeGroups(t *testing.T) {
	r := setupRepos(t)

	got, err := r.members.AgeGroups(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []AgeGroup{
		{Age: 10, Count: 2},
		{Age: 20, Count: 2},
		{Age: 30, Count: 3},
		{Age: 40, Count: 2},
		{Age: 50, Count: 2},
	}, got)

	got, err = r.members.AgeGroups(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []AgeGroup{{Age: 30, Count: 3}}, got)
}

func TestRoster(t *testing.T) {
	ctx := context.Background()
	r := setupRepos(t)

	loner := model.NewMember("loner", 33, nil)
	require.NoError(t, r.members.Save(ctx, loner))

	t.Run("all teams", func(t *testing.T) {
		entries, err := r.members.Roster(ctx, opt.None[string]())
		require.NoError(t, err)
		require.Len(t, entries, 13)

		assert.Equal(t, "member1", entries[0].Member.UserName)
		assert.Equal(t, "teamA", entries[0].Team.Name)
		assert.Equal(t, "teamB", entries[2].Team.Name)

		last := entries[12]
		assert.Equal(t, "loner", last.Member.UserName)
		assert.Nil(t, last.Team)
	})

	t.Run("restricted join keeps every member", func(t *testing.T) {
		entries, err := r.members.Roster(ctx, opt.Some("teamA"))
		require.NoError(t, err)
		require.Len(t, entries, 13)

		withTeam := 0
		for _, e := range entries {
			if e.Team != nil {
				assert.Equal(t, "teamA", e.Team.Name)
				withTeam++
			}
		}
		assert.Equal(t, 6, withTeam)
	})
}
