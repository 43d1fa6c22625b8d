// Package opt provides the weight update rule used during backpropagation.
package opt

import "github.com/pkg/errors"

// Errors returned by Momentum.Validate.
var (
	ErrEta   = errors.New("eta must be in (0, 1]")
	ErrAlpha = errors.New("alpha must be in [0, 1]")
)

// Default hyperparameters.
const (
	DefaultEta   = 0.15
	DefaultAlpha = 0.5
)

// Momentum is gradient descent with classical momentum.
// Each Net owns its own copy, so nets with different hyperparameters can train side by side.
type Momentum struct {
	Eta   float64 // overall net learning rate
	Alpha float64 // fraction of the previous delta carried into the next one
}

// NewMomentum creates a Momentum rule with the given learning rate and momentum.
func NewMomentum(eta, alpha float64) Momentum {
	return Momentum{Eta: eta, Alpha: alpha}
}

// Default returns Momentum{DefaultEta, DefaultAlpha}.
func Default() Momentum {
	return Momentum{Eta: DefaultEta, Alpha: DefaultAlpha}
}

// Validate checks 0 < eta <= 1 and 0 <= alpha <= 1.
// A zero eta is accepted by Delta but rejected here, since it freezes every weight.
func (m Momentum) Validate() error {
	if !(m.Eta > 0 && m.Eta <= 1) {
		return errors.Wrapf(ErrEta, "got %v", m.Eta)
	}
	if !(m.Alpha >= 0 && m.Alpha <= 1) {
		return errors.Wrapf(ErrAlpha, "got %v", m.Alpha)
	}
	return nil
}

// Delta computes the next weight change for a connection:
// eta * input * gradient + alpha * oldDelta
func (m Momentum) Delta(input, gradient, oldDelta float64) float64 {
	return m.Eta*input*gradient + m.Alpha*oldDelta
}
