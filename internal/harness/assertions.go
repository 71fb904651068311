package harness

import (
	"fmt"
	"math"
	"slices"
)

const avgTolerance = 1e-6

// CheckExpect compares an outcome with its expectations and returns one
// message per mismatch.
func CheckExpect(want Expect, got Outcome) []string {
	var errs []string

	if got.Error != want.Error {
		if want.Error == "" {
			return []string{fmt.Sprintf("unexpected error %s", got.Error)}
		}
		return []string{fmt.Sprintf("expected error %s, got %q", want.Error, got.Error)}
	}

	if want.Names != nil && !slices.Equal(want.Names, got.Names) {
		errs = append(errs, fmt.Sprintf("names: expected %v, got %v", want.Names, got.Names))
	}

	if want.Empty && len(got.Names) > 0 {
		errs = append(errs, fmt.Sprintf("expected no rows, got %v", got.Names))
	}

	if want.Count != nil {
		n := int64(len(got.Names))
		if got.Count != nil {
			n = *got.Count
		}
		if n != *want.Count {
			errs = append(errs, fmt.Sprintf("count: expected %d, got %d", *want.Count, n))
		}
	}

	if want.Groups != nil {
		gotGroups := make(map[int]int64, len(got.Groups))
		for _, g := range got.Groups {
			gotGroups[g.Age] = g.Count
		}
		if len(gotGroups) != len(want.Groups) {
			errs = append(errs, fmt.Sprintf("groups: expected %v, got %v", want.Groups, gotGroups))
		} else {
			for age, count := range want.Groups {
				if gotGroups[age] != count {
					errs = append(errs, fmt.Sprintf("groups[%d]: expected %d, got %d", age, count, gotGroups[age]))
				}
			}
		}
	}

	if want.Stats != nil {
		errs = append(errs, checkStats(*want.Stats, got)...)
	}

	return errs
}

func checkStats(want StatsExpect, got Outcome) []string {
	if got.Stats == nil {
		return []string{"stats: no aggregates produced"}
	}
	s := got.Stats
	var errs []string
	if s.Count != want.Count {
		errs = append(errs, fmt.Sprintf("stats.count: expected %d, got %d", want.Count, s.Count))
	}
	if s.Sum != want.Sum {
		errs = append(errs, fmt.Sprintf("stats.sum: expected %d, got %d", want.Sum, s.Sum))
	}
	if math.Abs(s.Avg-want.Avg) > avgTolerance {
		errs = append(errs, fmt.Sprintf("stats.avg: expected %g, got %g", want.Avg, s.Avg))
	}
	if s.Max != want.Max {
		errs = append(errs, fmt.Sprintf("stats.max: expected %d, got %d", want.Max, s.Max))
	}
	if s.Min != want.Min {
		errs = append(errs, fmt.Sprintf("stats.min: expected %d, got %d", want.Min, s.Min))
	}
	return errs
}
