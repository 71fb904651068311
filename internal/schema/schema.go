// Package schema declares the tables, columns and relations of the entity
// model. Query validation resolves every alias and column reference against
// these declarations at build time; nothing here is discovered by reflection.
package schema

// Kind is the storage type of a column.
type Kind string

const (
	KindInt  Kind = "int"
	KindText Kind = "text"
)

// Column describes one stored attribute.
type Column struct {
	Name string
	Kind Kind
}

// Table describes one entity table. The first column is the primary key.
type Table struct {
	Name    string
	Columns []Column
}

// PrimaryKey returns the identity column name.
func (t *Table) PrimaryKey() string {
	return t.Columns[0].Name
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Relation is a many-to-one foreign key from one table to another.
type Relation struct {
	Name       string
	From       *Table
	FromColumn string
	To         *Table
	ToColumn   string
}

var (
	// Team is tbl_team.
	Team = &Table{
		Name: "tbl_team",
		Columns: []Column{
			{Name: "team_id", Kind: KindInt},
			{Name: "name", Kind: KindText},
		},
	}

	// Member is tbl_member.
	Member = &Table{
		Name: "tbl_member",
		Columns: []Column{
			{Name: "member_id", Kind: KindInt},
			{Name: "user_name", Kind: KindText},
			{Name: "age", Kind: KindInt},
			{Name: "team_id", Kind: KindInt}, // nullable
		},
	}

	// MemberTeam is Member.team -> Team.
	MemberTeam = &Relation{
		Name:       "team",
		From:       Member,
		FromColumn: "team_id",
		To:         Team,
		ToColumn:   "team_id",
	}
)

// Tables returns every declared table, parents first.
func Tables() []*Table {
	return []*Table{Team, Member}
}

// LookupTable finds a table by name.
func LookupTable(name string) (*Table, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
