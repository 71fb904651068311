package harness

import "github.com/roach88/roster/internal/repository"

// Outcome is what one step actually produced.
type Outcome struct {
	Step   string                `json:"step"`
	Kind   string                `json:"kind"`
	Names  []string              `json:"names,omitempty"`
	Count  *int64                `json:"count,omitempty"`
	Groups []repository.AgeGroup `json:"groups,omitempty"`
	Stats  *repository.AgeStats  `json:"stats,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step met its expectations.
	Pass bool `json:"pass"`

	// Outcomes has one entry per step, in order.
	Outcomes []Outcome `json:"outcomes"`

	// Errors lists unmet expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError records an unmet expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
