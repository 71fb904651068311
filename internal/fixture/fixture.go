// Package fixture loads teams and members from YAML into a store.
//
// A fixture file lists teams by name and members referencing them:
//
//	teams:
//	  - name: teamA
//	members:
//	  - {user_name: member1, age: 10, team: teamA}
//	  - {user_name: loner, age: 7}
//
// The package embeds a default twelve-member roster (see Default).
package fixture

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/store"
)

//go:embed members.yaml
var defaultYAML []byte

// File is a parsed fixture.
type File struct {
	Teams   []TeamSpec   `yaml:"teams"`
	Members []MemberSpec `yaml:"members"`
}

// TeamSpec declares one team.
type TeamSpec struct {
	Name string `yaml:"name"`
}

// MemberSpec declares one member. Team names a team declared in the same
// file and may be empty.
type MemberSpec struct {
	UserName string `yaml:"user_name"`
	Age      int    `yaml:"age"`
	Team     string `yaml:"team,omitempty"`
}

// Loaded holds the entities created by Apply, with their assigned IDs.
type Loaded struct {
	Teams   []*model.Team
	Members []*model.Member
}

// Team returns the loaded team with the given name, or nil.
func (l *Loaded) Team(name string) *model.Team {
	for _, t := range l.Teams {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Member returns the loaded member with the given user name, or nil.
func (l *Loaded) Member(userName string) *model.Member {
	for _, m := range l.Members {
		if m.UserName == userName {
			return m
		}
	}
	return nil
}

// Parse decodes fixture YAML. Unknown fields are rejected so typos fail
// loudly.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded sample roster.
func Default() *File {
	f, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded fixture: %v", err))
	}
	return f
}

// Validate checks names and references.
func (f *File) Validate() error {
	teams := make(map[string]bool, len(f.Teams))
	for i, t := range f.Teams {
		if t.Name == "" {
			return fmt.Errorf("teams[%d]: name is required", i)
		}
		if teams[t.Name] {
			return fmt.Errorf("teams[%d]: duplicate team %q", i, t.Name)
		}
		teams[t.Name] = true
	}
	for i, m := range f.Members {
		if m.UserName == "" {
			return fmt.Errorf("members[%d]: user_name is required", i)
		}
		if m.Age < 0 {
			return fmt.Errorf("members[%d]: age must be non-negative, got %d", i, m.Age)
		}
		if m.Team != "" && !teams[m.Team] {
			return fmt.Errorf("members[%d]: unknown team %q", i, m.Team)
		}
	}
	return nil
}

// Apply saves every team, then every member, in file order and in one
// transaction.
func (f *File) Apply(ctx context.Context, s *store.Store) (*Loaded, error) {
	loaded := &Loaded{}
	err := s.Update(ctx, func(w *store.Writer) error {
		byName := make(map[string]*model.Team, len(f.Teams))
		for _, spec := range f.Teams {
			t := model.NewTeam(spec.Name)
			if err := w.SaveTeam(ctx, t); err != nil {
				return err
			}
			byName[spec.Name] = t
			loaded.Teams = append(loaded.Teams, t)
		}
		for _, spec := range f.Members {
			m := model.NewMember(spec.UserName, spec.Age, byName[spec.Team])
			if err := w.SaveMember(ctx, m); err != nil {
				return err
			}
			loaded.Members = append(loaded.Members, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply fixture: %w", err)
	}
	return loaded, nil
}
