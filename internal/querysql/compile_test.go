package querysql

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roster/internal/ir"
	"github.com/roach88/roster/internal/query"
	"github.com/roach88/roster/internal/queryir"
)

var (
	m  = query.Member
	tm = query.Team
	ms = query.MemberSub
)

// assertGoldenSQL compares SQL and parameter types/values against
// testdata/golden/<name>.golden.
func assertGoldenSQL(t *testing.T, name, sql string, args []any) {
	t.Helper()

	var b strings.Builder
	b.WriteString(sql)
	b.WriteByte('\n')
	for _, a := range args {
		fmt.Fprintf(&b, "%T %v\n", a, a)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(b.String()))
}

func mustBuild[T any](t *testing.T, b *query.Builder[T]) *queryir.Select {
	t.Helper()
	sel, err := b.Build()
	require.NoError(t, err)
	return sel
}

func TestCompile_GoldenSQL(t *testing.T) {
	testCases := []struct {
		name    string
		dialect Dialect
		query   func(t *testing.T) *queryir.Select
	}{
		{
			name:    "select_all",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectFrom(m))
			},
		},
		{
			name:    "find_user",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectFrom(m).Where(m.UserName.Eq("member2"), m.Age.Eq(20)))
			},
		},
		{
			name:    "order_age_desc",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectFrom(m).OrderBy(m.Age.Desc()))
			},
		},
		{
			name:    "paging",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectFrom(m).OrderBy(m.UserName.Desc()).Offset(3).Limit(3))
			},
		},
		{
			name:    "offset_only_sqlite",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectFrom(m).OrderBy(m.ID.Asc()).Offset(2))
			},
		},
		{
			name:    "offset_only_postgres",
			dialect: Postgres,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectFrom(m).OrderBy(m.ID.Asc()).Offset(2))
			},
		},
		{
			name:    "aggregates",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectTuple(m.Count(), m.Age.Sum(), m.Age.Avg(), m.Age.Max(), m.Age.Min()).From(m))
			},
		},
		{
			name:    "group_having",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectTuple(m.Age, m.Count()).
					From(m).
					GroupBy(m.Age).
					Having(m.Count().Goe(2)).
					OrderBy(m.Age.Asc()))
			},
		},
		{
			name:    "inner_join",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectTuple(m.UserName, tm.Name).
					From(m).
					Join(m.Team, tm).
					Where(tm.Name.Eq("teamA")))
			},
		},
		{
			name:    "left_join_on",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectTuple(m, tm).
					From(m).
					LeftJoin(m.Team, tm).
					On(tm.Name.Eq("teamA")))
			},
		},
		{
			name:    "scalar_subquery",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				oldest := query.Select(ms.Age.Max()).From(ms)
				return mustBuild(t, query.SelectFrom(m).Where(m.Age.EqExpr(oldest)))
			},
		},
		{
			name:    "postgres_placeholders",
			dialect: Postgres,
			query: func(t *testing.T) *queryir.Select {
				adults := query.Select(ms.Age).From(ms).Where(ms.Age.Gt(10))
				return mustBuild(t, query.SelectFrom(m).
					Where(
						m.UserName.StartsWith("member"),
						m.Age.InExpr(adults),
						m.Age.Between(20, 40),
					).
					Limit(5))
			},
		},
		{
			name:    "or_not_in",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectFrom(m).Where(
					query.Or(m.Age.Lt(20), query.Not(m.Age.In(30, 40))),
					m.TeamID.IsNotNull(),
				))
			},
		},
		{
			name:    "empty_in",
			dialect: SQLite,
			query: func(t *testing.T) *queryir.Select {
				return mustBuild(t, query.SelectFrom(m).Where(m.Age.In()))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args, err := NewSQLCompiler(tc.dialect).Compile(tc.query(t))
			require.NoError(t, err)
			assertGoldenSQL(t, tc.name, sql, args)
		})
	}
}

func TestCompileCount_GoldenSQL(t *testing.T) {
	q := mustBuild(t, query.SelectFrom(m).
		Join(m.Team, tm).
		Where(tm.Name.Eq("teamA")).
		OrderBy(m.Age.Desc()).
		Offset(1).
		Limit(2))

	sql, args, err := NewSQLCompiler(SQLite).CompileCount(q)
	require.NoError(t, err)
	assertGoldenSQL(t, "count", sql, args)
}

func TestCompile_NoStringInterpolation(t *testing.T) {
	hostile := "x' OR '1'='1"
	q := mustBuild(t, query.SelectFrom(m).Where(m.UserName.Eq(hostile)))

	for _, d := range []Dialect{SQLite, Postgres} {
		sql, args, err := NewSQLCompiler(d).Compile(q)
		require.NoError(t, err)
		assert.NotContains(t, sql, hostile)
		assert.Equal(t, []any{hostile}, args)
	}
}

func TestCompile_DoesNotAddOrdering(t *testing.T) {
	sql, _, err := NewSQLCompiler(SQLite).Compile(mustBuild(t, query.SelectFrom(m).Limit(3)))
	require.NoError(t, err)
	assert.NotContains(t, sql, "ORDER BY")
}

func TestCompile_Errors(t *testing.T) {
	c := NewSQLCompiler(SQLite)

	_, _, err := c.Compile(nil)
	require.Error(t, err)

	_, _, err = c.CompileCount(nil)
	require.Error(t, err)

	bad := queryir.NewBuildError(queryir.ErrCodeInvalidJoin, "broken subquery")
	_, _, err = c.Compile(&queryir.Select{
		Projection: []queryir.Expr{queryir.Column{Source: "m", Name: "age"}},
		From:       queryir.Source{Table: "tbl_member", Alias: "m"},
		Where:      queryir.Compare{Op: queryir.OpEq, Left: queryir.Column{Source: "m", Name: "age"}, Right: queryir.BadExpr{Err: bad}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, bad)

	_, _, err = c.Compile(&queryir.Select{
		Projection: []queryir.Expr{queryir.Column{Source: "m", Name: "age"}},
		From:       queryir.Source{Table: "tbl_member", Alias: "m"},
		Where:      queryir.Compare{Op: queryir.OpEq, Left: m.Expr(), Right: queryir.Literal{Value: ir.Int(1)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a scalar")
}

func TestParseDialect(t *testing.T) {
	testCases := []struct {
		input string
		want  Dialect
	}{
		{"sqlite3", SQLite},
		{"sqlite", SQLite},
		{"postgres", Postgres},
		{"pgx", Postgres},
	}
	for _, tc := range testCases {
		got, err := ParseDialect(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseDialect("mysql")
	require.Error(t, err)

	assert.Equal(t, "pgx", Postgres.Driver())
	assert.Equal(t, "sqlite3", SQLite.Driver())
}
