package net

import (
	"math"
	"math/rand"
)

// Connection is a directed weighted edge from a neuron to one regular neuron of the next layer.
type Connection struct {
	Weight      float64
	DeltaWeight float64 // last applied change, used for momentum
}

func newConnection(rng *rand.Rand) Connection {
	return Connection{Weight: randomWeight(rng)}
}

// randomWeight draws from roughly [-0.7, 0.7] so tanh starts away from saturation.
func randomWeight(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 2.0 / math.Sqrt(2.0)
}
