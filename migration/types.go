package migration

import (
	"fmt"
	"time"

	"github.com/northway/migrator/types"
)

// StepKind names the structural operation a Step performs
type StepKind string

const (
	KindAddColumn   StepKind = "AddColumn"
	KindCreateTable StepKind = "CreateTable"
	KindCreateIndex StepKind = "CreateIndex"
	KindBackfill    StepKind = "Backfill"

	// KindConnect labels the synthetic result of a failed connection
	KindConnect StepKind = "Connect"
)

// Status is the outcome of one Step
type Status int

const (
	StatusApplied Status = iota
	StatusAlreadyPresent
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusAlreadyPresent:
		return "AlreadyPresent"
	case StatusSkipped:
		return "Skipped"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// StepResult records what happened to one Step
type StepResult struct {
	Index     int // position in the migration, -1 for synthetic results
	Kind      StepKind
	Target    string
	Status    Status
	Message   string
	ErrorKind types.ErrorKind // meaningful only when Status is StatusFailed
	Statement string          // offending statement of a failure, if any
	Elapsed   time.Duration
}

// Report is the ordered outcome of applying one Migration
type Report struct {
	MigrationID string
	Results     []StepResult
	Interrupted bool
	Elapsed     time.Duration
}

// Failed reports whether any Step failed
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Succeeded is the negation of Failed. Interrupted runs without a failed Step
// still count as success for the Steps they executed.
func (r *Report) Succeeded() bool {
	return !r.Failed()
}

// Count returns how many results carry the given status
func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Summary renders the per-status counts
func (r *Report) Summary() string {
	return fmt.Sprintf("%d applied, %d already present, %d skipped, %d failed",
		r.Count(StatusApplied), r.Count(StatusAlreadyPresent),
		r.Count(StatusSkipped), r.Count(StatusFailed))
}

// AnyFailed reports whether at least one report contains a failed Step
func AnyFailed(reports []*Report) bool {
	for _, r := range reports {
		if r.Failed() {
			return true
		}
	}
	return false
}

// Migration is a named, ordered, immutable bundle of Steps
type Migration struct {
	ID          string
	Description string
	Steps       []Step
}

// Validate checks the migration and every Step without touching a database
func (m *Migration) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("migration id is required")
	}
	if len(m.Steps) == 0 {
		return fmt.Errorf("migration %s has no steps", m.ID)
	}
	for i, step := range m.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("migration %s step %d (%s): %w", m.ID, i+1, step.Kind(), err)
		}
	}
	return nil
}
