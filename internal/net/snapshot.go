package net

// Snapshot is a deep copy of a network's observable state.
// It can be handed to another goroutine while training continues.
type Snapshot struct {
	Topology           []int
	Outputs            [][]float64   // per layer, bias last
	Weights            [][][]float64 // [layer][neuron][destination]
	Error              float64
	RecentAverageError float64
}

// Snapshot copies outputs and weights of every neuron.
func (n *Net) Snapshot() Snapshot {
	s := Snapshot{
		Topology:           n.Topology(),
		Outputs:            make([][]float64, len(n.layers)),
		Weights:            make([][][]float64, len(n.layers)),
		Error:              n.error,
		RecentAverageError: n.recent.Value(),
	}
	for l, layer := range n.layers {
		s.Outputs[l] = make([]float64, len(layer.all))
		s.Weights[l] = make([][]float64, len(layer.all))
		for i, neuron := range layer.all {
			s.Outputs[l][i] = neuron.outputVal
			s.Weights[l][i] = neuron.Weights()
		}
	}
	return s
}

// Results returns the regular output values captured in the snapshot.
func (s Snapshot) Results() []float64 {
	if len(s.Outputs) == 0 {
		return nil
	}
	out := s.Outputs[len(s.Outputs)-1]
	return append([]float64(nil), out[:len(out)-1]...)
}

// NumWeights returns the number of connections in the snapshot.
func (s Snapshot) NumWeights() int {
	total := 0
	for _, layer := range s.Weights {
		for _, w := range layer {
			total += len(w)
		}
	}
	return total
}
