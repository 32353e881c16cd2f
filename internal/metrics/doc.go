// Package metrics records build metrics behind a small Recorder interface.
//
// Components receive a Recorder through injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	g := generator.New(opts, generator.WithRecorder(metrics.NewPrometheusRecorder(nil)))
//
// PrometheusRecorder registers its collectors on a private registry and can
// export them to a node_exporter textfile after the build with WriteTextfile.
package metrics
