// Package net provides a fully connected feedforward network trained online with backpropagation.
package net

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/tom-ludwig/neuralnet/internal/activations"
	"github.com/tom-ludwig/neuralnet/internal/loss"
	"github.com/tom-ludwig/neuralnet/internal/opt"
)

// Errors returned by the network.
var (
	ErrTopology     = errors.New("invalid topology")
	ErrInputSize    = errors.New("input size does not match input layer")
	ErrTargetSize   = errors.New("target size does not match output layer")
	ErrNotForwarded = errors.New("backpropagate called before feedforward")
)

// Config holds the construction settings of a Net. The zero value is usable:
// tanh transfer, default momentum, default smoothing and a random seed.
type Config struct {
	Momentum        *opt.Momentum // nil means opt.Default(); an explicit zero value freezes the weights
	Transfer        activations.Transfer
	SmoothingFactor float64
	Seed            int64      // 0 picks a random seed
	Rand            *rand.Rand // overrides Seed when set
}

type state uint8

const (
	idle state = iota
	forwardDone
)

// Net is an ordered sequence of layers built once from a topology.
// A Net is not safe for concurrent use; readers on other goroutines should use Snapshot.
type Net struct {
	layers   []*Layer
	topology []int
	transfer activations.Transfer
	momentum opt.Momentum
	error    float64
	recent   *loss.RecentAverage
	state    state

	// Pre-allocated output buffer for error computation
	outBuf []float64
}

// New creates a network from a topology: neuron counts per layer, input first.
func New(topology []int, cfg Config) (*Net, error) {
	if err := ValidateTopology(topology); err != nil {
		return nil, err
	}

	rng := cfg.Rand
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Int63()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	transfer := cfg.Transfer
	if transfer == nil {
		transfer = activations.Tanh{}
	}
	momentum := opt.Default()
	if cfg.Momentum != nil {
		momentum = *cfg.Momentum
	}

	n := &Net{
		layers:   make([]*Layer, len(topology)),
		topology: append([]int(nil), topology...),
		transfer: transfer,
		momentum: momentum,
		recent:   loss.NewRecentAverage(cfg.SmoothingFactor),
		outBuf:   make([]float64, topology[len(topology)-1]),
	}
	for i, size := range topology {
		numOutputs := 0
		if i < len(topology)-1 {
			numOutputs = topology[i+1]
		}
		n.layers[i] = newLayer(size, numOutputs, rng)
	}
	return n, nil
}

// ValidateTopology rejects topologies with fewer than two layers or an empty layer.
func ValidateTopology(topology []int) error {
	if len(topology) < 2 {
		return errors.Wrapf(ErrTopology, "need at least 2 layers, got %d", len(topology))
	}
	for i, size := range topology {
		if size <= 0 {
			return errors.Wrapf(ErrTopology, "layer %d has %d neurons", i+1, size)
		}
	}
	return nil
}

// FeedForward sets the input neurons and propagates through every following layer.
func (n *Net) FeedForward(inputs []float64) error {
	in := n.layers[0]
	if len(inputs) != in.Size() {
		return errors.Wrapf(ErrInputSize, "got %d values, want %d", len(inputs), in.Size())
	}

	for i, v := range inputs {
		in.regular[i].setOutputVal(v)
	}

	for l := 1; l < len(n.layers); l++ {
		prev := n.layers[l-1]
		for _, neuron := range n.layers[l].regular {
			neuron.feedForward(prev, n.transfer)
		}
	}
	n.state = forwardDone
	return nil
}

// BackPropagate updates the error metrics, computes gradients from output to input,
// and adjusts every weight. It must follow a FeedForward of the matching sample.
func (n *Net) BackPropagate(targets []float64) error {
	out := n.layers[len(n.layers)-1]
	if len(targets) != out.Size() {
		return errors.Wrapf(ErrTargetSize, "got %d values, want %d", len(targets), out.Size())
	}
	if n.state != forwardDone {
		return ErrNotForwarded
	}

	n.error = loss.RMS(targets, out.outputsInto(n.outBuf))
	n.recent.Add(n.error)

	for i, neuron := range out.regular {
		neuron.calcOutputGradients(targets[i], n.transfer)
	}

	// Bias neurons get a gradient too; it is never used for an incoming connection.
	for l := len(n.layers) - 2; l > 0; l-- {
		hidden, next := n.layers[l], n.layers[l+1]
		for _, neuron := range hidden.all {
			neuron.calcHiddenGradients(next, n.transfer)
		}
	}

	for l := len(n.layers) - 1; l > 0; l-- {
		layer, prev := n.layers[l], n.layers[l-1]
		for _, neuron := range layer.regular {
			neuron.updateInputWeights(prev, n.momentum)
		}
	}
	n.state = idle
	return nil
}

// Results returns a copy of the output layer values, bias excluded.
func (n *Net) Results() []float64 {
	return n.layers[len(n.layers)-1].Outputs()
}

// Predict runs a forward pass and returns the results.
func (n *Net) Predict(inputs []float64) ([]float64, error) {
	if err := n.FeedForward(inputs); err != nil {
		return nil, err
	}
	return n.Results(), nil
}

// Classify runs a forward pass and returns the index of the strongest output
// together with its value. Ties go to the lowest index.
func (n *Net) Classify(inputs []float64) (class int, confidence float64, err error) {
	out, err := n.Predict(inputs)
	if err != nil {
		return 0, 0, err
	}
	class = floats.MaxIdx(out)
	return class, out[class], nil
}

// Error returns the RMS output error of the last BackPropagate.
func (n *Net) Error() float64 {
	return n.error
}

// RecentAverageError returns the smoothed RMS error.
func (n *Net) RecentAverageError() float64 {
	return n.recent.Value()
}

// LayerCount returns the number of layers.
func (n *Net) LayerCount() int {
	return len(n.layers)
}

// Layer returns layer i, input first.
func (n *Net) Layer(i int) *Layer {
	return n.layers[i]
}

// Topology returns a copy of the topology the net was built from.
func (n *Net) Topology() []int {
	return append([]int(nil), n.topology...)
}

// InputSize returns the number of regular input neurons.
func (n *Net) InputSize() int {
	return n.topology[0]
}

// OutputSize returns the number of regular output neurons.
func (n *Net) OutputSize() int {
	return n.topology[len(n.topology)-1]
}

// Momentum returns the weight update hyperparameters.
func (n *Net) Momentum() opt.Momentum {
	return n.momentum
}

// SetMomentum replaces the weight update hyperparameters for following updates.
func (n *Net) SetMomentum(m opt.Momentum) {
	n.momentum = m
}

// Transfer returns the transfer function.
func (n *Net) Transfer() activations.Transfer {
	return n.transfer
}
