package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/roster/internal/ir"
	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/querysql"
	"github.com/roach88/roster/internal/schema"
)

// ErrUnknownID is returned when updating an entity whose identity does not
// exist in the store.
var ErrUnknownID = errors.New("unknown id")

// dbtx is satisfied by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Writer persists entities, either directly or inside Store.Update.
type Writer struct {
	db dbtx
	ph sq.PlaceholderFormat
}

func newWriter(db dbtx, d querysql.Dialect) *Writer {
	ph := sq.PlaceholderFormat(sq.Question)
	if d == querysql.Postgres {
		ph = sq.Dollar
	}
	return &Writer{db: db, ph: ph}
}

// SaveTeam inserts a new team and assigns its ID, or updates the name of
// an existing one.
func (w *Writer) SaveTeam(ctx context.Context, t *model.Team) error {
	name := ir.NormalizeText(t.Name)
	pk := schema.Team.PrimaryKey()

	if !t.ID.Assigned() {
		query, args, err := sq.Insert(schema.Team.Name).
			Columns("name").
			Values(name).
			Suffix("RETURNING " + pk).
			PlaceholderFormat(w.ph).
			ToSql()
		if err != nil {
			return fmt.Errorf("save team: %w", err)
		}
		var id int64
		if err := w.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return fmt.Errorf("save team %q: %w", name, err)
		}
		t.ID = model.ID(id)
		t.Name = name
		return nil
	}

	query, args, err := sq.Update(schema.Team.Name).
		Set("name", name).
		Where(sq.Eq{pk: int64(t.ID)}).
		PlaceholderFormat(w.ph).
		ToSql()
	if err != nil {
		return fmt.Errorf("save team: %w", err)
	}
	if err := w.execOne(ctx, query, args); err != nil {
		return fmt.Errorf("save team %d: %w", t.ID, err)
	}
	t.Name = name
	return nil
}

// SaveMember inserts a new member and assigns its ID, or updates an
// existing one. A referenced team must already be saved.
func (w *Writer) SaveMember(ctx context.Context, m *model.Member) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	name := ir.NormalizeText(m.UserName)
	var teamID any
	if m.TeamID != nil {
		teamID = int64(*m.TeamID)
	}
	pk := schema.Member.PrimaryKey()

	if !m.ID.Assigned() {
		query, args, err := sq.Insert(schema.Member.Name).
			Columns("user_name", "age", "team_id").
			Values(name, m.Age, teamID).
			Suffix("RETURNING " + pk).
			PlaceholderFormat(w.ph).
			ToSql()
		if err != nil {
			return fmt.Errorf("save member: %w", err)
		}
		var id int64
		if err := w.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return fmt.Errorf("save member %q: %w", name, err)
		}
		m.ID = model.ID(id)
		m.UserName = name
		return nil
	}

	query, args, err := sq.Update(schema.Member.Name).
		Set("user_name", name).
		Set("age", m.Age).
		Set("team_id", teamID).
		Where(sq.Eq{pk: int64(m.ID)}).
		PlaceholderFormat(w.ph).
		ToSql()
	if err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	if err := w.execOne(ctx, query, args); err != nil {
		return fmt.Errorf("save member %d: %w", m.ID, err)
	}
	m.UserName = name
	return nil
}

// DeleteMember removes a member by identity.
func (w *Writer) DeleteMember(ctx context.Context, id model.ID) error {
	query, args, err := sq.Delete(schema.Member.Name).
		Where(sq.Eq{schema.Member.PrimaryKey(): int64(id)}).
		PlaceholderFormat(w.ph).
		ToSql()
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if err := w.execOne(ctx, query, args); err != nil {
		return fmt.Errorf("delete member %d: %w", id, err)
	}
	return nil
}

// execOne runs a statement that must affect exactly one row.
func (w *Writer) execOne(ctx context.Context, query string, args []any) error {
	res, err := w.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownID
	}
	return nil
}
