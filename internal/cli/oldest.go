package cli

import (
	"github.com/spf13/cobra"
)

// NewOldestCommand creates the oldest command.
func NewOldestCommand(rootOpts *RootOptions) *cobra.Command {
	var atLeastAverage bool

	cmd := &cobra.Command{
		Use:   "oldest",
		Short: "List the oldest members",
		Long: `List the members whose age equals the maximum age, or with
--at-least-average the members at least as old as the average age.

Example:
  roster oldest
  roster oldest --at-least-average`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithSession(cmd, rootOpts, func(s *session) (any, error) {
				if atLeastAverage {
					members, err := s.members.AgeAtLeastAverage(cmd.Context())
					return MemberList(members), err
				}
				members, err := s.members.Oldest(cmd.Context())
				return MemberList(members), err
			})
		},
	}

	cmd.Flags().BoolVar(&atLeastAverage, "at-least-average", false, "compare against the average age instead of the maximum")

	return cmd
}
