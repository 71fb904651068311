package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/roster/internal/filter"
	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/repository"
)

// Scenario is a list of query steps over one fixture.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Fixture is a fixture file path, relative to the scenario file.
	// Empty means the built-in twelve-member roster.
	Fixture string `yaml:"fixture,omitempty"`

	// Steps run in order against the same database.
	Steps []Step `yaml:"steps"`
}

// Step runs one query.
type Step struct {
	Name string `yaml:"name"`

	// Kind selects the query; see the Kind constants.
	Kind string `yaml:"kind"`

	// Search holds the filter and page for search, count, one and first.
	Search SearchSpec `yaml:"search,omitempty"`

	// MinCount is the HAVING threshold for age_groups.
	MinCount int64 `yaml:"min_count,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Step kinds.
const (
	KindSearch         = "search"
	KindCount          = "count"
	KindOne            = "one"
	KindFirst          = "first"
	KindOldest         = "oldest"
	KindAtLeastAverage = "at_least_average"
	KindAgeGroups      = "age_groups"
	KindStats          = "stats"
)

var knownKinds = map[string]bool{
	KindSearch: true, KindCount: true, KindOne: true, KindFirst: true,
	KindOldest: true, KindAtLeastAverage: true, KindAgeGroups: true, KindStats: true,
}

// SearchSpec mirrors filter.MemberFilter and repository.Page. A field left
// out of the YAML is absent; a field set to zero is a constraint.
type SearchSpec struct {
	Name   *string  `yaml:"name,omitempty"`
	Age    *int     `yaml:"age,omitempty"`
	Team   *string  `yaml:"team,omitempty"`
	MinAge *int     `yaml:"min_age,omitempty"`
	MaxAge *int     `yaml:"max_age,omitempty"`
	Order  []string `yaml:"order,omitempty"`
	Offset *int     `yaml:"offset,omitempty"`
	Limit  *int     `yaml:"limit,omitempty"`
}

// Filter returns the member filter s describes.
func (s SearchSpec) Filter() filter.MemberFilter {
	return filter.MemberFilter{
		Name:     opt.FromPtr(s.Name),
		Age:      opt.FromPtr(s.Age),
		TeamName: opt.FromPtr(s.Team),
		MinAge:   opt.FromPtr(s.MinAge),
		MaxAge:   opt.FromPtr(s.MaxAge),
	}
}

// Page returns the ordering and window s describes.
func (s SearchSpec) Page() (repository.Page, error) {
	page := repository.Page{
		Offset: opt.FromPtr(s.Offset),
		Limit:  opt.FromPtr(s.Limit),
	}
	for _, key := range s.Order {
		order, err := repository.ParseSort(key)
		if err != nil {
			return page, err
		}
		page.Sort = append(page.Sort, order)
	}
	return page, nil
}

// Expect lists what a step must produce. Only the fields given are
// checked.
type Expect struct {
	// Names are the expected user names, in order.
	Names []string `yaml:"names,omitempty"`

	// Empty expects no rows (or an absent first result).
	Empty bool `yaml:"empty,omitempty"`

	// Count is the expected count (kind count) or number of rows.
	Count *int64 `yaml:"count,omitempty"`

	// Error is the expected failure: not_found, non_unique or invalid_query.
	Error string `yaml:"error,omitempty"`

	// Groups maps age to member count (kind age_groups).
	Groups map[int]int64 `yaml:"groups,omitempty"`

	// Stats are the expected aggregates (kind stats).
	Stats *StatsExpect `yaml:"stats,omitempty"`
}

// StatsExpect holds expected aggregates. Avg is compared with a small
// tolerance.
type StatsExpect struct {
	Count int64   `yaml:"count"`
	Sum   int     `yaml:"sum"`
	Avg   float64 `yaml:"avg"`
	Max   int     `yaml:"max"`
	Min   int     `yaml:"min"`
}

// Error kinds a step can expect.
const (
	ErrorNotFound     = "not_found"
	ErrorNonUnique    = "non_unique"
	ErrorInvalidQuery = "invalid_query"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly. A relative fixture path is resolved
// against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Fixture != "" && !filepath.IsAbs(scenario.Fixture) {
		scenario.Fixture = filepath.Join(filepath.Dir(path), scenario.Fixture)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// FindScenarios returns the YAML files under dir whose base name matches
// pattern (all files when pattern is empty), sorted by path.
func FindScenarios(dir, pattern string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if pattern != "" {
			ok, err := filepath.Match(pattern, d.Name())
			if err != nil {
				return fmt.Errorf("bad filter pattern: %w", err)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}
	if len(s.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}
	if s.Fixture != "" {
		if _, err := os.Stat(s.Fixture); err != nil {
			return fmt.Errorf("fixture file not found: %s", s.Fixture)
		}
	}

	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if !knownKinds[step.Kind] {
			return fmt.Errorf("steps[%d]: unknown kind %q", i, step.Kind)
		}
		switch step.Expect.Error {
		case "", ErrorNotFound, ErrorNonUnique, ErrorInvalidQuery:
		default:
			return fmt.Errorf("steps[%d]: unknown expected error %q", i, step.Expect.Error)
		}
		if step.Kind == KindStats && step.Expect.Stats == nil && step.Expect.Error == "" {
			return fmt.Errorf("steps[%d]: stats steps need expect.stats", i)
		}
	}
	return nil
}
