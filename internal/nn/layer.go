// Package nn implements the layer graph of the neural-network toolkit.
//
// This package provides:
//   - Layer: flat interface shared by every layer variant
//   - Input, Dense, ActivationLayer: graph building blocks
//   - SVM, SoftMax, SquaredError: output layers that pair with a loss
//   - Network: ordered chain of layers with eager shape propagation
//
// Gradients are derived by hand per layer type; there is no tape. A training
// step is:
//
//	out := net.Forward(batch)
//	net.Backward(lossFn.Gradient(out, targets))
//	net.UpdateParameters(optimizer)
//
// Activations are gonum dense matrices with one sample per row.
package nn

import (
	"fmt"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Kind is the persisted type tag of a layer.
type Kind string

// Layer kinds.
const (
	KindInput        Kind = "input"
	KindDense        Kind = "dense"
	KindActivation   Kind = "activation"
	KindSVM          Kind = "svm"
	KindSoftMax      Kind = "softmax"
	KindSquaredError Kind = "squared_error"
)

// Layer is one stage of the computation graph.
//
// Forward and Backward operate on per-batch buffers owned by the layer and
// are meant for the single training goroutine. Predict never touches those
// buffers and is safe for concurrent use once training is over.
type Layer interface {
	// Kind returns the type tag of the layer.
	Kind() Kind

	// Connect fixes the input shape of the layer. It is called once by
	// Network.AddLayer with the output shape of the previous layer and
	// returns ErrShapeMismatch if the layer declares a different input.
	Connect(input Shape) error

	// InputShape returns the connected input shape.
	InputShape() Shape

	// OutputShape returns the shape produced by the layer.
	OutputShape() Shape

	// Initialize draws fresh parameters. No-op for layers without parameters.
	Initialize(init Initialization, rng *rand.Rand)

	// Forward computes and caches the output activations for a batch
	// with shape [batch, InputShape().Size()].
	Forward(input *mat.Dense) *mat.Dense

	// Backward takes the gradient w.r.t. this layer's output, stores the
	// parameter gradients and returns the gradient w.r.t. its input.
	// It must follow a Forward call on the same batch.
	Backward(outputGradient *mat.Dense) *mat.Dense

	// Predict computes the output without caching anything.
	Predict(input *mat.Dense) *mat.Dense

	// Parameters returns the trainable parameters, nil if there are none.
	Parameters() []*Parameter

	// UpdateParameters applies rule to every trainable parameter.
	UpdateParameters(rule UpdateRule)

	// Clone returns a deep copy of the layer's configuration and parameters.
	// Transient batch buffers are not copied.
	Clone() Layer
}

// Task tells how the output of a network is interpreted.
type Task int

const (
	// Classification outputs one score per class.
	Classification Task = iota
	// Regression outputs the predicted value directly.
	Regression
)

func (t Task) String() string {
	switch t {
	case Classification:
		return "classification"
	case Regression:
		return "regression"
	default:
		return fmt.Sprintf("task(%d)", int(t))
	}
}

// ParseTask is the inverse of Task.String.
func ParseTask(s string) (Task, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classification":
		return Classification, nil
	case "regression":
		return Regression, nil
	default:
		return Classification, fmt.Errorf("unknown task %q", s)
	}
}

// OutputLayer is a layer that terminates a network and pairs with a loss.
type OutputLayer interface {
	Layer

	// Task returns whether the layer produces class scores or values.
	Task() Task
}

// resize returns m reshaped to r×c, reusing its backing storage when the
// capacity allows. The content is zero when the dimensions change.
func resize(m *mat.Dense, r, c int) *mat.Dense {
	if m == nil {
		return mat.NewDense(r, c, nil)
	}
	if rr, cc := m.Dims(); rr == r && cc == c {
		return m
	}
	m.Reset()
	m.ReuseAs(r, c)
	return m
}

// checkWidth panics if input does not carry want columns.
func checkWidth(layer string, input *mat.Dense, want int) {
	if input == nil {
		panic(fmt.Sprintf("%s: nil input", layer))
	}
	if _, c := input.Dims(); c != want {
		panic(fmt.Sprintf("%s: expected input with %d columns, got %d", layer, want, c))
	}
}
