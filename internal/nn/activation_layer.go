package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/parallel"
)

// ActivationLayer applies an element-wise nonlinearity.
//
// Example:
//
//	relu := nn.NewActivationLayer(nn.ReLU)
//	output := relu.Forward(input) // All negative values become 0
type ActivationLayer struct {
	activation Activation
	shape      Shape

	lastInput *mat.Dense
	output    *mat.Dense
	delta     *mat.Dense

	cfg parallel.Config
}

// NewActivationLayer creates a new activation layer.
func NewActivationLayer(activation Activation) *ActivationLayer {
	return &ActivationLayer{
		activation: activation,
		cfg:        parallel.DefaultConfig(),
	}
}

// Kind returns KindActivation.
func (a *ActivationLayer) Kind() Kind { return KindActivation }

// Activation returns the nonlinearity applied by the layer.
func (a *ActivationLayer) Activation() Activation { return a.activation }

// Connect adopts the previous layer's shape.
func (a *ActivationLayer) Connect(input Shape) error {
	if !input.Valid() {
		return fmt.Errorf("%w: activation layer cannot take input shape %v", ErrShapeMismatch, input)
	}
	if _, ok := activationNames[a.activation]; !ok {
		return fmt.Errorf("%w: %v", ErrInvalidActivation, a.activation)
	}
	a.shape = input
	return nil
}

// InputShape returns the connected shape.
func (a *ActivationLayer) InputShape() Shape { return a.shape }

// OutputShape returns the connected shape.
func (a *ActivationLayer) OutputShape() Shape { return a.shape }

// Initialize is a no-op.
func (a *ActivationLayer) Initialize(Initialization, *rand.Rand) {}

// Forward applies the activation element-wise and caches the input.
func (a *ActivationLayer) Forward(input *mat.Dense) *mat.Dense {
	checkWidth("nn.ActivationLayer.Forward", input, a.shape.Size())

	rows, cols := input.Dims()
	a.lastInput = input
	a.output = resize(a.output, rows, cols)
	a.apply(input, a.output)
	return a.output
}

// Backward multiplies the output gradient by f'(x) element-wise.
func (a *ActivationLayer) Backward(outputGradient *mat.Dense) *mat.Dense {
	if a.lastInput == nil {
		panic("nn.ActivationLayer.Backward: called before Forward")
	}
	rows, cols := a.lastInput.Dims()
	if r, c := outputGradient.Dims(); r != rows || c != cols {
		panic(fmt.Sprintf("nn.ActivationLayer.Backward: expected gradient %dx%d, got %dx%d", rows, cols, r, c))
	}

	a.delta = resize(a.delta, rows, cols)
	parallel.For(rows, func(r int) {
		x := a.lastInput.RawRowView(r)
		y := a.output.RawRowView(r)
		g := outputGradient.RawRowView(r)
		d := a.delta.RawRowView(r)
		for k := range d {
			d[k] = g[k] * a.activation.Derivative(x[k], y[k])
		}
	}, a.cfg)
	return a.delta
}

// Predict applies the activation into a fresh matrix.
func (a *ActivationLayer) Predict(input *mat.Dense) *mat.Dense {
	checkWidth("nn.ActivationLayer.Predict", input, a.shape.Size())

	rows, cols := input.Dims()
	output := mat.NewDense(rows, cols, nil)
	a.apply(input, output)
	return output
}

func (a *ActivationLayer) apply(input, output *mat.Dense) {
	rows, _ := input.Dims()
	parallel.For(rows, func(r int) {
		x := input.RawRowView(r)
		y := output.RawRowView(r)
		for k, v := range x {
			y[k] = a.activation.Apply(v)
		}
	}, a.cfg)
}

// Parameters returns nil.
func (a *ActivationLayer) Parameters() []*Parameter { return nil }

// UpdateParameters is a no-op.
func (a *ActivationLayer) UpdateParameters(UpdateRule) {}

// Clone returns a copy of the layer.
func (a *ActivationLayer) Clone() Layer {
	return &ActivationLayer{
		activation: a.activation,
		shape:      a.shape,
		cfg:        a.cfg,
	}
}
