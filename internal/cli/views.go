package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/repository"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func teamIDCell(id *model.ID) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}

// MemberList is a list of members with a tabular text form.
type MemberList []*model.Member

// RenderText implements TextRenderer.
func (l MemberList) RenderText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No members")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tTEAM")
	for _, m := range l {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", m.ID, m.UserName, m.Age, teamIDCell(m.TeamID))
	}
	return tw.Flush()
}

// CountResult is a bare count.
type CountResult struct {
	Count int64 `json:"count"`
}

// RenderText implements TextRenderer.
func (r CountResult) RenderText(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Count)
	return err
}

// StatsView renders AgeStats.
type StatsView repository.AgeStats

// RenderText implements TextRenderer.
func (s StatsView) RenderText(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "count\t%d\n", s.Count)
	fmt.Fprintf(tw, "sum\t%d\n", s.Sum)
	fmt.Fprintf(tw, "avg\t%.2f\n", s.Avg)
	fmt.Fprintf(tw, "max\t%d\n", s.Max)
	fmt.Fprintf(tw, "min\t%d\n", s.Min)
	return tw.Flush()
}

// AgeGroupList renders per-age counts.
type AgeGroupList []repository.AgeGroup

// RenderText implements TextRenderer.
func (l AgeGroupList) RenderText(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "AGE\tCOUNT")
	for _, g := range l {
		fmt.Fprintf(tw, "%d\t%d\n", g.Age, g.Count)
	}
	return tw.Flush()
}

// RosterList renders members next to their teams.
type RosterList []repository.RosterEntry

// RenderText implements TextRenderer.
func (l RosterList) RenderText(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "MEMBER\tAGE\tTEAM")
	for _, e := range l {
		team := "-"
		if e.Team != nil {
			team = e.Team.Name
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Member.UserName, e.Member.Age, team)
	}
	return tw.Flush()
}
