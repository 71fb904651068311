package cli

import (
	"github.com/spf13/cobra"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	GroupByAge bool
	MinCount   int64
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate member ages",
		Long: `Print count, sum, average, maximum and minimum of member ages.

With --group-by-age, print the number of members per age instead, keeping
only ages shared by at least --min-count members.

Example:
  roster stats
  roster stats --group-by-age --min-count 2 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithSession(cmd, rootOpts, func(s *session) (any, error) {
				if opts.GroupByAge {
					groups, err := s.members.AgeGroups(cmd.Context(), opts.MinCount)
					return AgeGroupList(groups), err
				}
				stats, err := s.members.AgeStats(cmd.Context())
				return StatsView(stats), err
			})
		},
	}

	cmd.Flags().BoolVar(&opts.GroupByAge, "group-by-age", false, "count members per age")
	cmd.Flags().Int64Var(&opts.MinCount, "min-count", 1, "with --group-by-age, smallest group to show")

	return cmd
}
