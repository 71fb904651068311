package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/roach88/roster/internal/config"
	"github.com/roach88/roster/internal/fetch"
	"github.com/roach88/roster/internal/fixture"
	"github.com/roach88/roster/internal/model"
	"github.com/roach88/roster/internal/queryir"
	"github.com/roach88/roster/internal/repository"
	"github.com/roach88/roster/internal/store"
)

// Harness holds the repositories one scenario runs against.
type Harness struct {
	members *repository.MemberRepository
	log     *zap.SugaredLogger
}

// Run executes a scenario in a fresh SQLite database and returns the
// result. It returns an error only when the scenario could not be run at
// all; unmet expectations are reported in the Result.
//
// log may be nil.
func Run(ctx context.Context, scenario *Scenario, log *zap.SugaredLogger) (*Result, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log = log.Named("harness").With("scenario", scenario.Name)

	dir, err := os.MkdirTemp("", "roster-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(ctx, config.SQLite(filepath.Join(dir, "scenario.db")), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario store: %w", err)
	}
	defer st.Close()

	file := fixture.Default()
	if scenario.Fixture != "" {
		if file, err = fixture.LoadFile(scenario.Fixture); err != nil {
			return nil, err
		}
	}
	if _, err := file.Apply(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}

	h := &Harness{
		members: repository.NewMemberRepository(st, fetch.New(st, log)),
		log:     log,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		outcome, err := h.executeStep(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Name, err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
		for _, msg := range CheckExpect(step.Expect, outcome) {
			result.AddError(fmt.Sprintf("step %d (%s): %s", i, step.Name, msg))
		}
		log.Debugw("step completed", "step", step.Name, "kind", step.Kind)
	}
	return result, nil
}

// executeStep runs one step. Expected query failures become part of the
// outcome; anything else is returned.
func (h *Harness) executeStep(ctx context.Context, step Step) (Outcome, error) {
	out := Outcome{Step: step.Name, Kind: step.Kind}
	f := step.Search.Filter()
	page, err := step.Search.Page()
	if err != nil {
		return out, err
	}

	switch step.Kind {
	case KindSearch:
		var members []*model.Member
		members, err = h.members.Search(ctx, f, page)
		out.Names = userNames(members)
	case KindCount:
		var n int64
		if n, err = h.members.Count(ctx, f); err == nil {
			out.Count = &n
		}
	case KindOne:
		var m *model.Member
		if m, err = h.members.SearchOne(ctx, f); err == nil {
			out.Names = []string{m.UserName}
		}
	case KindFirst:
		first, ferr := h.members.SearchFirst(ctx, f, page)
		if m, ok := first.Get(); ok {
			out.Names = []string{m.UserName}
		}
		err = ferr
	case KindOldest:
		var members []*model.Member
		members, err = h.members.Oldest(ctx)
		out.Names = userNames(members)
	case KindAtLeastAverage:
		var members []*model.Member
		members, err = h.members.AgeAtLeastAverage(ctx)
		out.Names = userNames(members)
	case KindAgeGroups:
		out.Groups, err = h.members.AgeGroups(ctx, step.MinCount)
	case KindStats:
		var stats repository.AgeStats
		if stats, err = h.members.AgeStats(ctx); err == nil {
			out.Stats = &stats
		}
	default:
		return out, fmt.Errorf("unknown kind %q", step.Kind)
	}

	if err != nil {
		kind, ok := errorKind(err)
		if !ok {
			return out, err
		}
		out.Error = kind
	}
	return out, nil
}

// errorKind names the query failures a scenario may expect.
func errorKind(err error) (string, bool) {
	var buildErr *queryir.BuildError
	switch {
	case errors.Is(err, fetch.ErrNotFound):
		return ErrorNotFound, true
	case errors.Is(err, fetch.ErrNonUniqueResult):
		return ErrorNonUnique, true
	case errors.As(err, &buildErr):
		return ErrorInvalidQuery, true
	default:
		return "", false
	}
}

func userNames(members []*model.Member) []string {
	if len(members) == 0 {
		return nil
	}
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.UserName
	}
	return out
}
