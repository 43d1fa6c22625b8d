// Package activations provides the transfer functions used by neurons.
package activations

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Transfer is a bounded, odd, differentiable transfer function with range (-1, 1).
type Transfer interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// DerivativeFromOutput computes f'(x) given y = f(x).
	// Neurons only keep their output, so the derivative is evaluated from it.
	DerivativeFromOutput(y float64) float64
}

// Tanh transfer function.
type Tanh struct{}

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// DerivativeFromOutput computes 1 - y^2
func (t Tanh) DerivativeFromOutput(y float64) float64 {
	return 1 - y*y
}

// Softsign transfer function x / (1 + |x|).
// Converges slower than Tanh but saturates less aggressively.
type Softsign struct{}

// Activate computes x / (1 + |x|)
func (s Softsign) Activate(x float64) float64 {
	return x / (1 + math.Abs(x))
}

// DerivativeFromOutput computes (1 - |y|)^2
func (s Softsign) DerivativeFromOutput(y float64) float64 {
	d := 1 - math.Abs(y)
	return d * d
}

// Name returns the config name of a transfer function.
func Name(t Transfer) string {
	switch t.(type) {
	case Tanh, *Tanh:
		return "tanh"
	case Softsign, *Softsign:
		return "softsign"
	default:
		return "unknown"
	}
}

// Parse maps a config name to a transfer function.
func Parse(name string) (Transfer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tanh":
		return Tanh{}, nil
	case "softsign":
		return Softsign{}, nil
	default:
		return nil, errors.Errorf("unknown transfer function %q", name)
	}
}
