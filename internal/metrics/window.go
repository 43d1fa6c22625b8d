package metrics

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Window accumulates per-sample stats between two reports.
type Window struct {
	samples int
	compute time.Duration
	errors  []float64
}

// Record adds one trained sample to the window.
func (w *Window) Record(computeTime time.Duration, sampleErr float64) {
	w.samples++
	w.compute += computeTime
	w.errors = append(w.errors, sampleErr)
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{Samples: w.samples}
	if w.compute > 0 {
		snap.SamplesPerSec = float64(w.samples) / w.compute.Seconds()
	}
	if w.samples > 0 {
		snap.AvgComputeUS = float64(w.compute.Microseconds()) / float64(w.samples)
		snap.MeanError, snap.StdError = stat.MeanStdDev(w.errors, nil)
	}

	w.samples = 0
	w.compute = 0
	w.errors = w.errors[:0]
	return snap
}

// Snapshot represents loggable window metrics.
type Snapshot struct {
	Samples       int
	SamplesPerSec float64
	AvgComputeUS  float64
	MeanError     float64
	StdError      float64
}
