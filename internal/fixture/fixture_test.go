package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/roster/internal/config"
	"github.com/roach88/roster/internal/store"
)

func TestDefault(t *testing.T) {
	f := Default()
	require.Len(t, f.Teams, 2)
	require.Len(t, f.Members, 12)

	assert.Equal(t, MemberSpec{UserName: "member12", Age: 80, Team: "teamB"}, f.Members[11])

	sum := 0
	for _, m := range f.Members {
		sum += m.Age
	}
	assert.Equal(t, 410, sum)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"unknown field", "teams:\n  - name: a\n    colour: red\n", "failed to parse YAML"},
		{"missing team name", "teams:\n  - name: \"\"\n", "name is required"},
		{"duplicate team", "teams:\n  - name: a\n  - name: a\n", "duplicate team"},
		{"unknown team", "members:\n  - {user_name: m, age: 1, team: ghost}\n", "unknown team"},
		{"negative age", "members:\n  - {user_name: m, age: -1}\n", "non-negative"},
		{"missing user name", "members:\n  - {age: 1}\n", "user_name is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, os.WriteFile(path, []byte("teams:\n  - name: solo\nmembers:\n  - {user_name: loner, age: 7}\n"), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []MemberSpec{{UserName: "loner", Age: 7}}, f.Members)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, config.SQLite(filepath.Join(t.TempDir(), "test.db")), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	loaded, err := Default().Apply(ctx, s)
	require.NoError(t, err)
	require.Len(t, loaded.Members, 12)

	teamA := loaded.Team("teamA")
	require.NotNil(t, teamA)
	assert.True(t, teamA.ID.Assigned())

	m1 := loaded.Member("member1")
	require.NotNil(t, m1)
	require.True(t, m1.HasTeam())
	assert.Equal(t, teamA.ID, *m1.TeamID)

	assert.Nil(t, loaded.Team("teamC"))
	assert.Nil(t, loaded.Member("member99"))

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM tbl_member").Scan(&n))
	assert.Equal(t, 12, n)
}
