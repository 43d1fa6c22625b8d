// Package loss provides the error metrics reported during training.
package loss

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultSmoothingFactor is the number of samples the recent average error roughly spans.
const DefaultSmoothingFactor = 100.0

// RMS computes the root mean square of targets - outputs.
// Both slices must have the same length; an empty slice yields 0.
func RMS(targets, outputs []float64) float64 {
	n := len(outputs)
	if n != len(targets) {
		panic("RMS: targets and outputs must have same length")
	}
	if n == 0 {
		return 0
	}

	delta := make([]float64, n)
	floats.SubTo(delta, targets, outputs)
	return math.Sqrt(floats.Dot(delta, delta) / float64(n))
}

// RecentAverage is an exponentially smoothed error metric:
// avg = (avg * factor + sample) / (factor + 1)
type RecentAverage struct {
	factor float64
	value  float64
}

// NewRecentAverage creates a smoother. A non-positive factor falls back to DefaultSmoothingFactor.
func NewRecentAverage(factor float64) *RecentAverage {
	if !(factor > 0) {
		factor = DefaultSmoothingFactor
	}
	return &RecentAverage{factor: factor}
}

// Add folds a new sample into the average and returns the updated value.
func (r *RecentAverage) Add(sample float64) float64 {
	r.value = (r.value*r.factor + sample) / (r.factor + 1)
	return r.value
}

// Value returns the current smoothed value.
func (r *RecentAverage) Value() float64 {
	return r.value
}

// Factor returns the smoothing factor.
func (r *RecentAverage) Factor() float64 {
	return r.factor
}
