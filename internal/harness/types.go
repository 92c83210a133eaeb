package harness

import "github.com/roach88/jispell/internal/heji"

// Entry is the outcome of one step.
type Entry struct {
	Step  int    `json:"step"`
	Kind  string `json:"kind"`
	Input string `json:"input"`

	// Seq is set for samples that produced a reading.
	Seq     int64 `json:"seq,omitempty"`
	Dropped bool  `json:"dropped,omitempty"`

	// RootHz is set for root steps.
	RootHz float64 `json:"root_hz,omitempty"`

	Spelling *heji.Spelling `json:"spelling,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	Pass     bool     `json:"pass"`
	Session  string   `json:"session"`
	Anchor   string   `json:"anchor"`
	Entries  []Entry  `json:"entries"`
	Readings int      `json:"readings"`
	Errors   []string `json:"errors,omitempty"`
}

// NewResult creates a passing, empty result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Entries: []Entry{},
		Errors:  []string{},
	}
}

// AddError records a failure and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Spellings returns the spelled entries in step order.
func (r *Result) Spellings() []heji.Spelling {
	var out []heji.Spelling
	for _, e := range r.Entries {
		if e.Spelling != nil {
			out = append(out, *e.Spelling)
		}
	}
	return out
}
