package metrics

import "time"

// ResultLabel enumerates phase and builder invocation results for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultSkipped  ResultLabel = "skipped"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess    BuildOutcomeLabel = "success"
	BuildOutcomeFailed     BuildOutcomeLabel = "failed"
	BuildOutcomeIncomplete BuildOutcomeLabel = "incomplete"
	BuildOutcomeCanceled   BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for build, phase and builder metrics.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncPhaseResult(phase string, result ResultLabel)
	IncBuilderInvocation(builder, phase string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetDiscoveredFiles(n int)
	SetGroups(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration)       {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)               {}
func (NoopRecorder) IncPhaseResult(string, ResultLabel)               {}
func (NoopRecorder) IncBuilderInvocation(string, string, ResultLabel) {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)                {}
func (NoopRecorder) SetDiscoveredFiles(int)                           {}
func (NoopRecorder) SetGroups(int)                                    {}
