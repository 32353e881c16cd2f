package generator

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

type countingRecorder struct {
	phases      []string
	invocations []string
	outcomes    []metrics.BuildOutcomeLabel
	files       int
	groups      int
}

func (r *countingRecorder) ObservePhaseDuration(phase string, _ time.Duration) {
	r.phases = append(r.phases, phase)
}

func (r *countingRecorder) IncBuilderInvocation(builder, phase string, result metrics.ResultLabel) {
	r.invocations = append(r.invocations, builder+"/"+phase+"/"+string(result))
}

func (r *countingRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) {
	r.outcomes = append(r.outcomes, o)
}

func (r *countingRecorder) ObserveBuildDuration(time.Duration)         {}
func (r *countingRecorder) IncPhaseResult(string, metrics.ResultLabel) {}
func (r *countingRecorder) SetDiscoveredFiles(n int)                   { r.files = n }
func (r *countingRecorder) SetGroups(n int)                            { r.groups = n }
