package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/roster/internal/config"
	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/querysql"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(context.Background(), config.SQLite(path), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	require.NoError(t, err, "database file was not created")
	assert.Equal(t, querysql.SQLite, s.Dialect())
}

func TestOpen_Idempotent(t *testing.T) {
	ctx := context.Background()
	cfg := config.SQLite(filepath.Join(t.TempDir(), "test.db"))

	for i := 0; i < 3; i++ {
		s, err := Open(ctx, cfg, zap.NewNop().Sugar())
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err := Open(ctx, cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer s.Close()

	version, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"tbl_team", "tbl_member"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %q not found", table)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	testCases := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}

	for _, tc := range testCases {
		t.Run(tc.pragma, func(t *testing.T) {
			assert.NoError(t, s.verifyPragma(tc.pragma, tc.want))
		})
	}
}

func TestOpen_RejectsInvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "mysql"}, zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage config")
}

func TestSaveTeam_AssignsIdentity(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	a := model.NewTeam("teamA")
	b := model.NewTeam("teamB")
	require.NoError(t, s.SaveTeam(ctx, a))
	require.NoError(t, s.SaveTeam(ctx, b))

	assert.True(t, a.ID.Assigned())
	assert.True(t, b.ID.Assigned())
	assert.NotEqual(t, a.ID, b.ID)

	a.Name = "teamAlpha"
	require.NoError(t, s.SaveTeam(ctx, a))

	var name string
	require.NoError(t, s.db.QueryRow("SELECT name FROM tbl_team WHERE team_id = ?", int64(a.ID)).Scan(&name))
	assert.Equal(t, "teamAlpha", name)
}

func TestSaveMember_InsertAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	teamA := model.NewTeam("teamA")
	teamB := model.NewTeam("teamB")
	require.NoError(t, s.SaveTeam(ctx, teamA))
	require.NoError(t, s.SaveTeam(ctx, teamB))

	m := model.NewMember("member1", 10, teamA)
	require.NoError(t, s.SaveMember(ctx, m))
	require.True(t, m.ID.Assigned())
	id := m.ID

	m.SetTeam(teamB)
	m.Age = 11
	require.NoError(t, s.SaveMember(ctx, m))
	assert.Equal(t, id, m.ID, "identity never changes")

	var age int
	var teamID int64
	require.NoError(t, s.db.QueryRow("SELECT age, team_id FROM tbl_member WHERE member_id = ?", int64(id)).Scan(&age, &teamID))
	assert.Equal(t, 11, age)
	assert.Equal(t, int64(teamB.ID), teamID)

	m.SetTeam(nil)
	require.NoError(t, s.SaveMember(ctx, m))
	var nullTeam *int64
	require.NoError(t, s.db.QueryRow("SELECT team_id FROM tbl_member WHERE member_id = ?", int64(id)).Scan(&nullTeam))
	assert.Nil(t, nullTeam)
}

func TestSaveMember_Rejections(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	t.Run("negative age", func(t *testing.T) {
		err := s.SaveMember(ctx, model.NewMember("young", -1, nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "age must be non-negative")
	})

	t.Run("unsaved team", func(t *testing.T) {
		err := s.SaveMember(ctx, model.NewMember("m", 1, model.NewTeam("ghost")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "team reference is not saved")
	})

	t.Run("team that does not exist", func(t *testing.T) {
		ghost := &model.Team{ID: 999, Name: "ghost"}
		err := s.SaveMember(ctx, model.NewMember("m", 1, ghost))
		require.Error(t, err, "foreign key must be enforced")
	})

	t.Run("update of unknown id", func(t *testing.T) {
		err := s.SaveMember(ctx, &model.Member{ID: 12345, UserName: "nobody", Age: 1})
		require.ErrorIs(t, err, ErrUnknownID)
	})
}

func TestSave_NormalizesNames(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	// "Jose" followed by a combining acute accent.
	m := model.NewMember("Jose\u0301", 30, nil)
	require.NoError(t, s.SaveMember(ctx, m))
	assert.Equal(t, "Jos\u00e9", m.UserName)

	var stored string
	require.NoError(t, s.db.QueryRow("SELECT user_name FROM tbl_member WHERE member_id = ?", int64(m.ID)).Scan(&stored))
	assert.Equal(t, "Jos\u00e9", stored)
}

func TestDeleteMember(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	m := model.NewMember("member1", 10, nil)
	require.NoError(t, s.SaveMember(ctx, m))
	require.NoError(t, s.DeleteMember(ctx, m.ID))
	require.ErrorIs(t, s.DeleteMember(ctx, m.ID), ErrUnknownID)
}

func TestUpdate_CommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	err := s.Update(ctx, func(w *Writer) error {
		team := model.NewTeam("teamA")
		if err := w.SaveTeam(ctx, team); err != nil {
			return err
		}
		return w.SaveMember(ctx, model.NewMember("member1", 10, team))
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Update(ctx, func(w *Writer) error {
		if err := w.SaveTeam(ctx, model.NewTeam("teamB")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var teams, members int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM tbl_team").Scan(&teams))
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM tbl_member").Scan(&members))
	assert.Equal(t, 1, teams, "rolled back team must not persist")
	assert.Equal(t, 1, members)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.SaveTeam(ctx, model.NewTeam("teamA")))

	rows, err := s.Query(ctx, "SELECT name FROM tbl_team WHERE name = ?", "teamA")
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var name string
	require.NoError(t, rows.Scan(&name))
	assert.Equal(t, "teamA", name)
}
