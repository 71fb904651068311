package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/roster/internal/opt"
)

// NewRosterCommand creates the roster command.
func NewRosterCommand(rootOpts *RootOptions) *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "List members with their teams",
		Long: `List every member next to its team. With --team, only that team
is shown; members of other teams are still listed, without a team.

Example:
  roster roster
  roster roster --team teamA`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teamName := opt.None[string]()
			if cmd.Flags().Changed("team") {
				teamName = opt.Some(team)
			}
			return runWithSession(cmd, rootOpts, func(s *session) (any, error) {
				entries, err := s.members.Roster(cmd.Context(), teamName)
				return RosterList(entries), err
			})
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "only join this team")

	return cmd
}
