// Package metrics counts per-mesh and per-file outcomes of a run and writes
// them in the Prometheus text exposition format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fbx2json/internal/tangent"
)

// Recorder owns a private registry so that tests and concurrent runs do not
// share state through the global one.
type Recorder struct {
	Registry *prometheus.Registry

	Meshes *prometheus.CounterVec
	Files  *prometheus.CounterVec
	Stage  *prometheus.HistogramVec
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		Meshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fbx2json_meshes_total",
				Help: "Meshes processed by the tangent deriver, by outcome",
			},
			[]string{"outcome"},
		),
		Files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fbx2json_files_total",
				Help: "Input files processed, by status",
			},
			[]string{"status"},
		),
		Stage: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fbx2json_stage_duration_seconds",
				Help:    "Duration of pipeline stages",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"stage"},
		),
	}
	r.Registry.MustRegister(r.Meshes, r.Files, r.Stage)
	return r
}

// ObserveReport adds the outcomes of one DeriveScene call.
func (r *Recorder) ObserveReport(rep tangent.Report) {
	if r == nil {
		return
	}
	r.Meshes.WithLabelValues(tangent.Applied.String()).Add(float64(rep.Applied))
	r.Meshes.WithLabelValues(tangent.Skipped.String()).Add(float64(rep.Skipped))
	r.Meshes.WithLabelValues(tangent.Failed.String()).Add(float64(len(rep.Failures)))
}

// File counts one processed input file.
func (r *Recorder) File(ok bool) {
	if r == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	r.Files.WithLabelValues(status).Inc()
}

// Since observes the time elapsed since start for stage.
func (r *Recorder) Since(stage string, start time.Time) {
	if r == nil {
		return
	}
	r.Stage.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes all metrics to path, atomically, for pickup by the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
