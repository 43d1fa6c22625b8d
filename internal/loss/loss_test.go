// Package loss provides unit tests for error metrics.
package loss

import (
	"math"
	"testing"
)

// TestRMS tests root mean square error.
func TestRMS(t *testing.T) {
	tests := []struct {
		name     string
		targets  []float64
		outputs  []float64
		expected float64
	}{
		{"perfect", []float64{1, -1}, []float64{1, -1}, 0},
		{"single", []float64{1}, []float64{0.5}, 0.5},
		{"pair", []float64{1, 0}, []float64{0, 1}, 1},
		{"mixed", []float64{0.3, -0.4}, []float64{0, 0}, math.Sqrt(0.125)},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RMS(tt.targets, tt.outputs)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("RMS = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestRMSLengthMismatch ensures mismatched inputs panic.
func TestRMSLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on length mismatch")
		}
	}()
	RMS([]float64{1, 2}, []float64{1})
}

// TestRecentAverage tests exponential smoothing.
func TestRecentAverage(t *testing.T) {
	r := NewRecentAverage(3)

	if got := r.Add(4); got != 1 {
		t.Errorf("first Add = %v, want 1", got)
	}
	if got := r.Add(4); got != 1.75 {
		t.Errorf("second Add = %v, want 1.75", got)
	}
	if r.Value() != 1.75 {
		t.Errorf("Value = %v, want 1.75", r.Value())
	}
	if r.Factor() != 3 {
		t.Errorf("Factor = %v, want 3", r.Factor())
	}
}

// TestRecentAverageConverges checks a constant input pulls the average towards it.
func TestRecentAverageConverges(t *testing.T) {
	r := NewRecentAverage(DefaultSmoothingFactor)
	prev := r.Value()
	for i := 0; i < 2000; i++ {
		v := r.Add(0.5)
		if v < prev {
			t.Fatalf("average decreased at step %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	if math.Abs(prev-0.5) > 1e-3 {
		t.Errorf("average = %v, want ~0.5", prev)
	}
}

// TestRecentAverageDefaultFactor tests the fallback factor.
func TestRecentAverageDefaultFactor(t *testing.T) {
	for _, f := range []float64{0, -1, math.NaN()} {
		if got := NewRecentAverage(f).Factor(); got != DefaultSmoothingFactor {
			t.Errorf("NewRecentAverage(%v).Factor() = %v, want %v", f, got, DefaultSmoothingFactor)
		}
	}
}
