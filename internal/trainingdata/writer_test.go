package trainingdata

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	sw, err := NewWriter(&buf, []int{2, 3, 1})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := sw.Write([]float64{1, 0.25}, []float64{-1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := sw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "topology: 2 3 1\nin: 1.0 0.25\nout: -1.0\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if sw.Count() != 1 {
		t.Errorf("Count = %d, want 1", sw.Count())
	}
}

func TestWriterValidatesWidths(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, []int{3}); err == nil {
		t.Error("expected error for single layer topology")
	}

	sw, err := NewWriter(&bytes.Buffer{}, []int{2, 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.Write([]float64{1}, []float64{1}); err == nil {
		t.Error("expected error for short inputs")
	}
	if err := sw.Write([]float64{1, 1}, []float64{1, 0}); err == nil {
		t.Error("expected error for long targets")
	}
	if sw.Count() != 0 {
		t.Errorf("Count = %d after rejected writes", sw.Count())
	}
}

func TestGenerateXOR(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateXOR(&buf, 100, rand.New(rand.NewSource(3))); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 201 {
		t.Fatalf("got %d lines, want 201", len(lines))
	}
	if lines[0] != "topology: 2 4 1" {
		t.Errorf("header = %q", lines[0])
	}

	seen := map[string]bool{}
	for i := 1; i < len(lines); i += 2 {
		seen[lines[i]+" | "+lines[i+1]] = true
	}
	valid := map[string]bool{
		"in: 0.0 0.0 | out: 0.0": true,
		"in: 0.0 1.0 | out: 1.0": true,
		"in: 1.0 0.0 | out: 1.0": true,
		"in: 1.0 1.0 | out: 0.0": true,
	}
	for pair := range seen {
		if !valid[pair] {
			t.Errorf("invalid XOR pair %q", pair)
		}
	}
	if len(seen) != 4 {
		t.Errorf("saw %d distinct pairs in 100 samples, want 4", len(seen))
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{-3, "-3.0"},
		{0.1, "0.1"},
		{1.0 / 3, "0.3333333333333333"},
		{1e20, "1e+20"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
