package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/roster/internal/fixture"
)

// SeedResult counts the entities a seed created.
type SeedResult struct {
	Teams   int `json:"teams"`
	Members int `json:"members"`
}

// RenderText implements TextRenderer.
func (r SeedResult) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Seeded %d teams and %d members\n", r.Teams, r.Members)
	return err
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [fixture.yaml]",
		Short: "Load teams and members from a fixture",
		Long: `Load teams and members from a YAML fixture. Without a file the
built-in sample roster (two teams, twelve members) is loaded.

Seeding is not idempotent: running it twice creates the entities twice.

Example:
  roster seed --db ./roster.db
  roster seed --db ./roster.db ./testdata/roster.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := fixture.Default()
			if len(args) == 1 {
				loaded, err := fixture.LoadFile(args[0])
				if err != nil {
					out := newFormatter(cmd, rootOpts)
					return out.Fail(&setupError{code: ErrCodeFixture, err: err})
				}
				file = loaded
			}

			return runWithSession(cmd, rootOpts, func(s *session) (any, error) {
				loaded, err := file.Apply(cmd.Context(), s.store)
				if err != nil {
					return nil, err
				}
				s.log.Infow("seeded", "teams", len(loaded.Teams), "members", len(loaded.Members))
				return SeedResult{Teams: len(loaded.Teams), Members: len(loaded.Members)}, nil
			})
		},
	}
}
