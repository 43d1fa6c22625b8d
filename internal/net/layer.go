package net

import "math/rand"

// Layer is an ordered sequence of regular neurons followed by one bias neuron.
type Layer struct {
	all     []*Neuron // regular neurons then the bias neuron
	regular []*Neuron // all[:len(all)-1]
	bias    *Neuron
}

// newLayer creates size regular neurons plus a bias, each with numOutputs connections.
func newLayer(size, numOutputs int, rng *rand.Rand) *Layer {
	all := make([]*Neuron, 0, size+1)
	for i := 0; i < size; i++ {
		all = append(all, newNeuron(numOutputs, i, Regular, rng))
	}
	bias := newNeuron(numOutputs, -1, Bias, rng)
	all = append(all, bias)
	return &Layer{
		all:     all,
		regular: all[:size],
		bias:    bias,
	}
}

// Size returns the number of regular neurons.
func (l *Layer) Size() int { return len(l.regular) }

// Len returns the number of neurons including the bias.
func (l *Layer) Len() int { return len(l.all) }

// Neuron returns neuron i; i == Size() is the bias neuron.
func (l *Layer) Neuron(i int) *Neuron { return l.all[i] }

// Neurons returns the layer's neurons, bias last. The slice must not be modified.
func (l *Layer) Neurons() []*Neuron { return l.all }

// Bias returns the layer's bias neuron.
func (l *Layer) Bias() *Neuron { return l.bias }

// Outputs returns a copy of the regular neurons' output values.
func (l *Layer) Outputs() []float64 {
	return l.outputsInto(make([]float64, len(l.regular)))
}

func (l *Layer) outputsInto(dst []float64) []float64 {
	for i, n := range l.regular {
		dst[i] = n.outputVal
	}
	return dst
}
