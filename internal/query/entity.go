package query

import (
	"fmt"

	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/queryir"
	"github.com/roach88/roster/internal/schema"
)

// EntityPath is an aliased table that can appear in FROM or JOIN.
type EntityPath interface {
	Source() queryir.Source
	Table() *schema.Table
}

// Relation is a declared many-to-one association, bound to the alias of
// the owning side.
type Relation struct {
	rel   *schema.Relation
	alias string
}

// Name returns the relation name, e.g. "team".
func (r Relation) Name() string { return r.rel.Name }

// on builds the foreign key equality toward target.
func (r Relation) on(target EntityPath) (Predicate, error) {
	if target.Table() != r.rel.To {
		return nil, queryir.NewBuildError(queryir.ErrCodeInvalidJoin,
			"relation %s.%s leads to %s, not %s", r.alias, r.rel.Name, r.rel.To.Name, target.Table().Name)
	}
	return queryir.Compare{
		Op:    queryir.OpEq,
		Left:  queryir.Column{Source: r.alias, Name: r.rel.FromColumn},
		Right: queryir.Column{Source: target.Source().Alias, Name: r.rel.ToColumn},
	}, nil
}

// QMember describes tbl_member under one alias.
type QMember struct {
	alias string

	ID       NumberPath[int64]
	UserName StringPath
	Age      NumberPath[int]
	TeamID   NumberPath[int64]

	// Team follows the member's team reference.
	Team Relation
}

// NewQMember returns a member descriptor under alias. Use distinct aliases
// when the same table appears twice, e.g. in a subquery.
func NewQMember(alias string) *QMember {
	return &QMember{
		alias:    alias,
		ID:       numberPath[int64](alias, "member_id"),
		UserName: stringPath(alias, "user_name"),
		Age:      numberPath[int](alias, "age"),
		TeamID:   numberPath[int64](alias, "team_id"),
		Team:     Relation{rel: schema.MemberTeam, alias: alias},
	}
}

func (q *QMember) Source() queryir.Source {
	return queryir.Source{Table: schema.Member.Name, Alias: q.alias}
}

func (q *QMember) Table() *schema.Table { return schema.Member }

func (q *QMember) Expr() queryir.Expr {
	return queryir.Entity{Source: q.alias, Table: schema.Member.Name, Columns: schema.Member.ColumnNames()}
}

func (q *QMember) Width() int { return len(schema.Member.Columns) }

// Decode builds a Member from member_id, user_name, age, team_id. A NULL
// identity (the unmatched side of an outer join) decodes to nil.
func (q *QMember) Decode(vals []any) (*model.Member, error) {
	if vals[0] == nil {
		return nil, nil
	}
	id, err := toNumber[int64](vals[0])
	if err != nil {
		return nil, fmt.Errorf("member_id: %w", err)
	}
	name, err := toString(vals[1])
	if err != nil {
		return nil, fmt.Errorf("user_name: %w", err)
	}
	age, err := toNumber[int](vals[2])
	if err != nil {
		return nil, fmt.Errorf("age: %w", err)
	}
	m := &model.Member{ID: model.ID(id), UserName: name, Age: age}
	if vals[3] != nil {
		teamID, err := toNumber[int64](vals[3])
		if err != nil {
			return nil, fmt.Errorf("team_id: %w", err)
		}
		tid := model.ID(teamID)
		m.TeamID = &tid
	}
	return m, nil
}

func (q *QMember) decodeAny(vals []any) (any, error) { return q.Decode(vals) }

// Count is COUNT over the member identity.
func (q *QMember) Count() NumberExpr[int64] {
	return NumberExpr[int64]{expr: aggregate(queryir.AggCount, q.Expr())}
}

// Asc orders by identity, ascending.
func (q *QMember) Asc() Order { return q.ID.Asc() }

// QTeam describes tbl_team under one alias.
type QTeam struct {
	alias string

	ID   NumberPath[int64]
	Name StringPath
}

// NewQTeam returns a team descriptor under alias.
func NewQTeam(alias string) *QTeam {
	return &QTeam{
		alias: alias,
		ID:    numberPath[int64](alias, "team_id"),
		Name:  stringPath(alias, "name"),
	}
}

func (q *QTeam) Source() queryir.Source {
	return queryir.Source{Table: schema.Team.Name, Alias: q.alias}
}

func (q *QTeam) Table() *schema.Table { return schema.Team }

func (q *QTeam) Expr() queryir.Expr {
	return queryir.Entity{Source: q.alias, Table: schema.Team.Name, Columns: schema.Team.ColumnNames()}
}

func (q *QTeam) Width() int { return len(schema.Team.Columns) }

// Decode builds a Team from team_id, name. A NULL identity decodes to nil.
func (q *QTeam) Decode(vals []any) (*model.Team, error) {
	if vals[0] == nil {
		return nil, nil
	}
	id, err := toNumber[int64](vals[0])
	if err != nil {
		return nil, fmt.Errorf("team_id: %w", err)
	}
	name, err := toString(vals[1])
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	return &model.Team{ID: model.ID(id), Name: name}, nil
}

func (q *QTeam) decodeAny(vals []any) (any, error) { return q.Decode(vals) }

// Count is COUNT over the team identity.
func (q *QTeam) Count() NumberExpr[int64] {
	return NumberExpr[int64]{expr: aggregate(queryir.AggCount, q.Expr())}
}

// Default descriptors. Member and Team are used by most queries; MemberSub
// gives subqueries over members a separate alias.
var (
	Member    = NewQMember("m")
	Team      = NewQTeam("t")
	MemberSub = NewQMember("ms")
)
