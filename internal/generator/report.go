package generator

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// PhaseName identifies one step of the build.
type PhaseName string

const (
	PhaseDiscover      PhaseName = "discover"
	PhaseAssemble      PhaseName = "assemble"
	PhaseData          PhaseName = "data"
	PhasePrepareOutput PhaseName = "prepare_output"
	PhaseBuild         PhaseName = "build"
)

// Outcome is the final status of a build.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed means the build aborted before writing any output.
	OutcomeFailed Outcome = "failed"
	// OutcomeIncomplete means a builder failed after output was cleared;
	// the output directory holds a partial site.
	OutcomeIncomplete Outcome = "incomplete"
	OutcomeCanceled   Outcome = "canceled"
)

func (o Outcome) label() metrics.BuildOutcomeLabel {
	switch o {
	case OutcomeSuccess:
		return metrics.BuildOutcomeSuccess
	case OutcomeIncomplete:
		return metrics.BuildOutcomeIncomplete
	case OutcomeCanceled:
		return metrics.BuildOutcomeCanceled
	default:
		return metrics.BuildOutcomeFailed
	}
}

// Invocation records one builder call.
type Invocation struct {
	Phase    PhaseName     `json:"phase"`
	Builder  string        `json:"builder"`
	Group    string        `json:"group"`
	Files    int           `json:"files"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// PhaseTiming is the wall time a phase took.
type PhaseTiming struct {
	Phase    PhaseName     `json:"phase"`
	Duration time.Duration `json:"duration_ns"`
}

// GroupSummary describes one assembled group.
type GroupSummary struct {
	Key      string   `json:"key"`
	Files    []string `json:"files"`
	Builders []string `json:"builders"`
}

// Report describes a finished (or aborted) build.
type Report struct {
	BuildID      string         `json:"build_id"`
	Start        time.Time      `json:"start"`
	End          time.Time      `json:"end"`
	Files        int            `json:"files"`
	Ignored      int            `json:"ignored"`
	Duplicates   int            `json:"duplicates"`
	MissingRoots []string       `json:"missing_roots,omitempty"`
	Groups       []GroupSummary `json:"groups"`
	Phases       []PhaseTiming  `json:"phases"`
	Invocations  []Invocation   `json:"invocations"`
	Outcome      Outcome        `json:"outcome"`
	Error        string         `json:"error,omitempty"`
}

// Duration is the total wall time of the build.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// PhaseDuration returns the recorded duration of phase.
func (r *Report) PhaseDuration(phase PhaseName) (time.Duration, bool) {
	for _, p := range r.Phases {
		if p.Phase == phase {
			return p.Duration, true
		}
	}
	return 0, false
}

// InvocationsIn returns the invocations of one phase, in call order.
func (r *Report) InvocationsIn(phase PhaseName) []Invocation {
	var out []Invocation
	for _, inv := range r.Invocations {
		if inv.Phase == phase {
			out = append(out, inv)
		}
	}
	return out
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("build=%s files=%d ignored=%d duplicates=%d groups=%d invocations=%d duration=%s outcome=%s",
		r.BuildID, r.Files, r.Ignored, r.Duplicates, len(r.Groups), len(r.Invocations),
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}
