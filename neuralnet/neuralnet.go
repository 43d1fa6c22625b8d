// Package neuralnet is the public surface of the network and its sample reader.
package neuralnet

import (
	"context"

	"github.com/tom-ludwig/neuralnet/internal/activations"
	"github.com/tom-ludwig/neuralnet/internal/net"
	"github.com/tom-ludwig/neuralnet/internal/opt"
	"github.com/tom-ludwig/neuralnet/internal/trainer"
	"github.com/tom-ludwig/neuralnet/internal/trainingdata"
)

// Re-export common types and functions for easier access
type (
	Net        = net.Net
	Config     = net.Config
	Layer      = net.Layer
	Neuron     = net.Neuron
	Connection = net.Connection
	Role       = net.Role
	Snapshot   = net.Snapshot
	Momentum   = opt.Momentum
	Transfer   = activations.Transfer
	Reader     = trainingdata.Reader
	Outcome    = trainingdata.Outcome

	TrainConfig = trainer.Config
	TrainResult = trainer.Result
	Callback    = trainer.Callback
	EpochStats  = trainer.EpochStats
)

// Neuron roles
const (
	Regular = net.Regular
	Bias    = net.Bias
)

// Reader outcomes
const (
	Read    = trainingdata.Read
	Skipped = trainingdata.Skipped
	EOF     = trainingdata.EOF
)

// Transfer functions
var (
	Tanh     = activations.Tanh{}
	Softsign = activations.Softsign{}
)

// Errors
var (
	ErrTopology         = net.ErrTopology
	ErrInputSize        = net.ErrInputSize
	ErrTargetSize       = net.ErrTargetSize
	ErrNotForwarded     = net.ErrNotForwarded
	ErrNoTopology       = trainingdata.ErrNoTopology
	ErrLayerSize        = trainingdata.ErrLayerSize
	ErrNoSamples        = trainer.ErrNoSamples
	ErrTopologyMismatch = trainer.ErrTopologyMismatch
)

// New builds a net with one layer per topology entry.
func New(topology []int, cfg Config) (*Net, error) {
	return net.New(topology, cfg)
}

func NewMomentum(eta, alpha float64) Momentum {
	return opt.NewMomentum(eta, alpha)
}

func DefaultMomentum() Momentum {
	return opt.Default()
}

// Open opens a training sample file positioned after its topology header.
func Open(path string) (*Reader, error) {
	return trainingdata.Open(path)
}

func PeekTopology(path string) ([]int, error) {
	return trainingdata.PeekTopology(path)
}

func CheckTopology(file, network []int) error {
	return trainer.CheckTopology(file, network)
}

// Train runs a training session; see trainer.Config for the available knobs.
func Train(ctx context.Context, cfg TrainConfig) (TrainResult, error) {
	return trainer.Run(ctx, cfg)
}
