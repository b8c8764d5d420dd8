package nn

import (
	"fmt"
	"math"
	"strings"
)

// Activation is a stateless element-wise nonlinearity.
//
// Each activation provides its forward formula (Apply) and the derivative
// used during the backward pass. Derivative receives both the pre-activation
// input x and the already computed output y so that sigmoid-like functions
// do not recompute the forward value.
type Activation int

// Supported activations.
const (
	// Undefined is the identity: f(x) = x.
	Undefined Activation = iota
	// ReLU applies f(x) = max(0, x).
	ReLU
	// Sigmoid applies σ(x) = 1 / (1 + exp(-x)).
	Sigmoid
	// Tanh applies the hyperbolic tangent.
	Tanh
	// SoftPlus applies f(x) = log(1 + exp(x)).
	SoftPlus
)

var activationNames = map[Activation]string{
	Undefined: "undefined",
	ReLU:      "relu",
	Sigmoid:   "sigmoid",
	Tanh:      "tanh",
	SoftPlus:  "softplus",
}

// String returns the persisted name of the activation.
func (a Activation) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

// ParseActivation is the inverse of Activation.String.
func ParseActivation(name string) (Activation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range activationNames {
		if n == name {
			return a, nil
		}
	}
	return Undefined, fmt.Errorf("unknown activation %q", name)
}

// Apply computes the activation for a single value.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case ReLU:
		if x > 0 {
			return x
		}
		return 0
	case Sigmoid:
		return sigmoid(x)
	case Tanh:
		return math.Tanh(x)
	case SoftPlus:
		// log1p(exp(x)) overflows for large x; softplus(x) ≈ x there.
		if x > 30 {
			return x
		}
		return math.Log1p(math.Exp(x))
	default:
		return x
	}
}

// Derivative computes f'(x) given the input x and output y = f(x).
func (a Activation) Derivative(x, y float64) float64 {
	switch a {
	case ReLU:
		if x > 0 {
			return 1
		}
		return 0
	case Sigmoid:
		return y * (1 - y)
	case Tanh:
		return 1 - y*y
	case SoftPlus:
		return sigmoid(x)
	default:
		return 1
	}
}

// sigmoid is evaluated on the side that keeps exp() from overflowing.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
