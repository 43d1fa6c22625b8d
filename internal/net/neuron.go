package net

import (
	"math/rand"

	"github.com/tom-ludwig/neuralnet/internal/activations"
	"github.com/tom-ludwig/neuralnet/internal/opt"
)

// Role tells regular neurons apart from the constant bias unit of a layer.
type Role uint8

const (
	// Regular neurons receive input (input layer) or compute an activation.
	Regular Role = iota
	// Bias neurons always output 1.0 and only act as a source of connections.
	Bias
)

func (r Role) String() string {
	switch r {
	case Regular:
		return "regular"
	case Bias:
		return "bias"
	default:
		return "unknown"
	}
}

// biasOutput is the constant output of every bias neuron.
const biasOutput = 1.0

// Neuron holds an output value and the connections to the next layer.
type Neuron struct {
	role          Role
	index         int // position among the layer's regular neurons; -1 for bias
	outputVal     float64
	gradient      float64
	outputWeights []Connection // one per regular neuron of the next layer, in index order
}

func newNeuron(numOutputs, index int, role Role, rng *rand.Rand) *Neuron {
	n := &Neuron{
		role:          role,
		index:         index,
		outputWeights: make([]Connection, numOutputs),
	}
	for i := range n.outputWeights {
		n.outputWeights[i] = newConnection(rng)
	}
	if role == Bias {
		n.outputVal = biasOutput
	}
	return n
}

// Role returns whether the neuron is a regular or bias neuron.
func (n *Neuron) Role() Role { return n.role }

// Index returns the position among the layer's regular neurons, or -1 for the bias neuron.
func (n *Neuron) Index() int { return n.index }

// OutputVal returns the last computed activation (or injected input).
func (n *Neuron) OutputVal() float64 { return n.outputVal }

// Gradient returns the gradient from the last backward pass.
func (n *Neuron) Gradient() float64 { return n.gradient }

// NumConnections returns the number of outgoing connections.
func (n *Neuron) NumConnections() int { return len(n.outputWeights) }

// Connection returns the outgoing connection to regular neuron i of the next layer.
func (n *Neuron) Connection(i int) Connection { return n.outputWeights[i] }

// Weights returns a copy of the outgoing connection weights in destination order.
func (n *Neuron) Weights() []float64 {
	w := make([]float64, len(n.outputWeights))
	for i, c := range n.outputWeights {
		w[i] = c.Weight
	}
	return w
}

// SetWeight overwrites the weight of outgoing connection i and clears its momentum.
func (n *Neuron) SetWeight(i int, w float64) {
	n.outputWeights[i] = Connection{Weight: w}
}

func (n *Neuron) setOutputVal(v float64) {
	if n.role == Bias {
		return
	}
	n.outputVal = v
}

func (n *Neuron) feedForward(prev *Layer, tr activations.Transfer) {
	sum := 0.0
	// Sum the previous layer's outputs, bias included.
	for _, p := range prev.all {
		sum += p.outputVal * p.outputWeights[n.index].Weight
	}
	n.outputVal = tr.Activate(sum)
}

func (n *Neuron) calcOutputGradients(target float64, tr activations.Transfer) {
	delta := target - n.outputVal
	n.gradient = delta * tr.DerivativeFromOutput(n.outputVal)
}

// calcHiddenGradients requires the gradients of next to be computed already.
func (n *Neuron) calcHiddenGradients(next *Layer, tr activations.Transfer) {
	n.gradient = n.sumDOW(next) * tr.DerivativeFromOutput(n.outputVal)
}

// sumDOW sums this neuron's contributions to the errors of the nodes it feeds.
func (n *Neuron) sumDOW(next *Layer) float64 {
	sum := 0.0
	for i := range n.outputWeights {
		sum += n.outputWeights[i].Weight * next.regular[i].gradient
	}
	return sum
}

// updateInputWeights adjusts the connections from prev into this neuron.
func (n *Neuron) updateInputWeights(prev *Layer, m opt.Momentum) {
	for _, p := range prev.all {
		c := &p.outputWeights[n.index]
		delta := m.Delta(p.outputVal, n.gradient, c.DeltaWeight)
		c.Weight += delta
		c.DeltaWeight = delta
	}
}
