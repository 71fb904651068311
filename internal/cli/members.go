package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/roster/internal/filter"
	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/repository"
)

// MembersOptions holds flags for the members command.
type MembersOptions struct {
	*RootOptions
	Name   string
	Age    int
	Team   string
	MinAge int
	MaxAge int
	Order  []string
	Offset int
	Limit  int
	One    bool
	First  bool
	Count  bool
}

// NewMembersCommand creates the members command.
func NewMembersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MembersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "members",
		Short: "Search members",
		Long: `Search members. Every filter flag is optional; only the flags given
constrain the result, and they combine with AND.

Results come back in the order given by --order (repeatable), or in
storage order when no order is given.

Example:
  roster members --name member2 --age 20
  roster members --team teamA --min-age 20 --order age:desc --limit 3
  roster members --age 30 --one
  roster members --team teamB --count`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMembers(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "exact user name")
	cmd.Flags().IntVar(&opts.Age, "age", 0, "exact age")
	cmd.Flags().StringVar(&opts.Team, "team", "", "team name")
	cmd.Flags().IntVar(&opts.MinAge, "min-age", 0, "minimum age (inclusive)")
	cmd.Flags().IntVar(&opts.MaxAge, "max-age", 0, "maximum age (inclusive)")
	cmd.Flags().StringArrayVar(&opts.Order, "order", nil, "sort key field[:asc|desc]; fields are id, name, age, team")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "rows to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum rows to return")
	cmd.Flags().BoolVar(&opts.One, "one", false, "require exactly one match")
	cmd.Flags().BoolVar(&opts.First, "first", false, "return only the first match")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print the number of matches")
	cmd.MarkFlagsMutuallyExclusive("one", "first", "count")

	return cmd
}

// filterFromFlags turns the flags that were actually set into a filter.
// An unset --age is absent, while --age 0 is a constraint.
func (o *MembersOptions) filterFromFlags(flags *pflag.FlagSet) filter.MemberFilter {
	var f filter.MemberFilter
	if flags.Changed("name") {
		f.Name = opt.Some(o.Name)
	}
	if flags.Changed("age") {
		f.Age = opt.Some(o.Age)
	}
	if flags.Changed("team") {
		f.TeamName = opt.Some(o.Team)
	}
	if flags.Changed("min-age") {
		f.MinAge = opt.Some(o.MinAge)
	}
	if flags.Changed("max-age") {
		f.MaxAge = opt.Some(o.MaxAge)
	}
	return f
}

func (o *MembersOptions) pageFromFlags(flags *pflag.FlagSet) (repository.Page, error) {
	var page repository.Page
	for _, key := range o.Order {
		order, err := repository.ParseSort(key)
		if err != nil {
			return page, &inputError{err: err}
		}
		page.Sort = append(page.Sort, order)
	}
	if flags.Changed("offset") {
		page.Offset = opt.Some(o.Offset)
	}
	if flags.Changed("limit") {
		page.Limit = opt.Some(o.Limit)
	}
	return page, nil
}

func runMembers(cmd *cobra.Command, opts *MembersOptions) error {
	f := opts.filterFromFlags(cmd.Flags())
	page, err := opts.pageFromFlags(cmd.Flags())
	if err != nil {
		return newFormatter(cmd, opts.RootOptions).Fail(err)
	}
	if (opts.One || opts.Count) && (page.Offset.IsPresent() || page.Limit.IsPresent() || len(page.Sort) > 0) {
		err := &inputError{err: errors.New("--order, --offset and --limit do not apply to --one or --count")}
		return newFormatter(cmd, opts.RootOptions).Fail(err)
	}

	return runWithSession(cmd, opts.RootOptions, func(s *session) (any, error) {
		ctx := cmd.Context()
		s.log.Debugw("member search", "filter_empty", f.IsEmpty(), "needs_team", f.NeedsTeam())

		switch {
		case opts.Count:
			n, err := s.members.Count(ctx, f)
			return CountResult{Count: n}, err
		case opts.One:
			m, err := s.members.SearchOne(ctx, f)
			if err != nil {
				return nil, err
			}
			return MemberList{m}, nil
		case opts.First:
			m, err := s.members.SearchFirst(ctx, f, page)
			if err != nil {
				return nil, err
			}
			if got, ok := m.Get(); ok {
				return MemberList{got}, nil
			}
			return MemberList{}, nil
		default:
			members, err := s.members.Search(ctx, f, page)
			return MemberList(members), err
		}
	})
}
