// Package model defines the Member and Team entities.
//
// Identities are assigned by the store when an entity is first saved and never
// change afterwards. A zero ID means "not yet assigned".
package model

import "fmt"

// ID is a store-assigned entity identity.
type ID int64

// Assigned reports whether the store has assigned this identity.
func (id ID) Assigned() bool {
	return id != 0
}

// Member is a person who optionally belongs to one Team.
type Member struct {
	ID       ID     `json:"id"`
	UserName string `json:"user_name"`
	Age      int    `json:"age"`
	TeamID   *ID    `json:"team_id"` // nil when the member has no team
}

// NewMember creates an unsaved Member. team may be nil.
func NewMember(userName string, age int, team *Team) *Member {
	m := &Member{UserName: userName, Age: age}
	m.SetTeam(team)
	return m
}

// SetTeam points the member at team, or clears the reference when team is nil.
// This is the only way team membership changes.
func (m *Member) SetTeam(team *Team) {
	if team == nil {
		m.TeamID = nil
		return
	}
	id := team.ID
	m.TeamID = &id
}

// HasTeam reports whether the member references a team.
func (m *Member) HasTeam() bool {
	return m.TeamID != nil
}

// Equal reports identity equality: both identities assigned and equal.
func (m *Member) Equal(other *Member) bool {
	if m == nil || other == nil {
		return false
	}
	return m.ID.Assigned() && m.ID == other.ID
}

// Validate checks invariants that do not need the store.
func (m *Member) Validate() error {
	if m.Age < 0 {
		return fmt.Errorf("member %q: age must be non-negative, got %d", m.UserName, m.Age)
	}
	if m.TeamID != nil && !m.TeamID.Assigned() {
		return fmt.Errorf("member %q: team reference is not saved", m.UserName)
	}
	return nil
}

// String omits the team, matching how members are printed in listings.
func (m *Member) String() string {
	return fmt.Sprintf("Member(id=%d, userName=%s, age=%d)", m.ID, m.UserName, m.Age)
}

// Team groups members. Its member list is not stored on the Team; it is
// computed from the members' team references.
type Team struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// NewTeam creates an unsaved Team.
func NewTeam(name string) *Team {
	return &Team{Name: name}
}

// Equal reports identity equality: both identities assigned and equal.
func (t *Team) Equal(other *Team) bool {
	if t == nil || other == nil {
		return false
	}
	return t.ID.Assigned() && t.ID == other.ID
}

func (t *Team) String() string {
	return fmt.Sprintf("Team(id=%d, name=%s)", t.ID, t.Name)
}
