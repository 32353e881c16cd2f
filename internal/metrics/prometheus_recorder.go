package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once               sync.Once
	reg                *prom.Registry
	phaseDuration      *prom.HistogramVec
	buildDuration      prom.Histogram
	phaseResults       *prom.CounterVec
	builderInvocations *prom.CounterVec
	buildOutcome       *prom.CounterVec
	discoveredFiles    prom.Gauge
	groups             prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.phaseDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual build phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.phaseResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "phase_results_total",
			Help:      "Phase result counts by outcome",
		}, []string{"phase", "result"})
		pr.builderInvocations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "builder_invocations_total",
			Help:      "Builder data/build invocations by result",
		}, []string{"builder", "phase", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.discoveredFiles = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "discovered_files",
			Help:      "Files selected by the last discovery",
		})
		pr.groups = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Groups assembled by the last build, default group included",
		})
		reg.MustRegister(pr.phaseDuration, pr.buildDuration, pr.phaseResults, pr.builderInvocations,
			pr.buildOutcome, pr.discoveredFiles, pr.groups)
	})
	return pr
}

// Registry exposes the registry the collectors live on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil || p.phaseDuration == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPhaseResult(phase string, result ResultLabel) {
	if p == nil || p.phaseResults == nil {
		return
	}
	p.phaseResults.WithLabelValues(phase, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuilderInvocation(builder, phase string, result ResultLabel) {
	if p == nil || p.builderInvocations == nil {
		return
	}
	p.builderInvocations.WithLabelValues(builder, phase, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetDiscoveredFiles(n int) {
	if p == nil || p.discoveredFiles == nil {
		return
	}
	p.discoveredFiles.Set(float64(n))
}

func (p *PrometheusRecorder) SetGroups(n int) {
	if p == nil || p.groups == nil {
		return
	}
	p.groups.Set(float64(n))
}

// WriteTextfile writes the current metric values in the text exposition
// format, atomically replacing path. Suitable for the node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if p == nil || p.reg == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
