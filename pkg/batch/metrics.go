package batch

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts batch progress on a caller-supplied registry.
type Metrics struct {
	Discovered prometheus.Counter
	Featurized prometheus.Counter
	Failed     prometheus.Counter
	Duration   prometheus.Histogram
}

// NewMetrics registers the batch metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Discovered: f.NewCounter(prometheus.CounterOpts{
			Name: "matfeat_files_discovered_total",
			Help: "Structure files found in the input directory",
		}),
		Featurized: f.NewCounter(prometheus.CounterOpts{
			Name: "matfeat_files_featurized_total",
			Help: "Structure files turned into a feature row",
		}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Name: "matfeat_files_failed_total",
			Help: "Structure files that failed parsing or a descriptor",
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "matfeat_batch_duration_seconds",
			Help:    "Wall time of a featurization batch",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 600, 1800, 3600},
		}),
	}
}

// WriteMetrics writes everything gathered by g to path in the Prometheus text
// format, creating parent directories.
func WriteMetrics(path string, g prometheus.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, g)
}
