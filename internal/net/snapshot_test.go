package net

import "testing"

func TestSnapshotIsCopy(t *testing.T) {
	n := mustNew(t, []int{2, 3, 2}, Config{Seed: 6})
	if err := n.FeedForward([]float64{0.2, 0.7}); err != nil {
		t.Fatal(err)
	}
	if err := n.BackPropagate([]float64{1, -1}); err != nil {
		t.Fatal(err)
	}

	s := n.Snapshot()
	if len(s.Outputs) != 3 || len(s.Outputs[1]) != 4 || len(s.Weights[0][0]) != 3 {
		t.Fatalf("unexpected snapshot shape: %d layers", len(s.Outputs))
	}
	if s.RecentAverageError != n.RecentAverageError() || s.Error != n.Error() {
		t.Errorf("snapshot errors = %v, %v", s.Error, s.RecentAverageError)
	}

	results := s.Results()
	live := n.Results()
	if len(results) != 2 || results[0] != live[0] || results[1] != live[1] {
		t.Errorf("Results = %v, want %v", results, live)
	}

	before := s.Weights[0][0][0]
	n.Layer(0).Neuron(0).SetWeight(0, before+1)
	if s.Weights[0][0][0] != before {
		t.Error("snapshot shares weight storage with the net")
	}

	s.Topology[0] = 10
	if n.InputSize() != 2 {
		t.Error("snapshot shares topology with the net")
	}
}

func TestEmptySnapshotResults(t *testing.T) {
	if got := (Snapshot{}).Results(); got != nil {
		t.Errorf("Results of empty snapshot = %v, want nil", got)
	}
}
