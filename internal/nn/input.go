package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Input is the first layer of every network. It declares the shape of one
// observation and forwards its input unchanged.
type Input struct {
	shape Shape
}

// NewInput creates an input layer for flat observations with the given
// number of features.
func NewInput(features int) *Input {
	return &Input{shape: Flat(features)}
}

// NewInputShape creates an input layer with an explicit shape.
func NewInputShape(shape Shape) *Input {
	return &Input{shape: shape}
}

// Kind returns KindInput.
func (l *Input) Kind() Kind { return KindInput }

// Connect validates the declared shape. The argument is ignored since
// nothing precedes an input layer.
func (l *Input) Connect(Shape) error {
	if !l.shape.Valid() {
		return fmt.Errorf("%w: input shape %v must be positive", ErrShapeMismatch, l.shape)
	}
	return nil
}

// InputShape returns the declared shape.
func (l *Input) InputShape() Shape { return l.shape }

// OutputShape returns the declared shape.
func (l *Input) OutputShape() Shape { return l.shape }

// Initialize is a no-op.
func (l *Input) Initialize(Initialization, *rand.Rand) {}

// Forward returns input unchanged.
func (l *Input) Forward(input *mat.Dense) *mat.Dense {
	checkWidth("nn.Input.Forward", input, l.shape.Size())
	return input
}

// Backward returns outputGradient unchanged.
func (l *Input) Backward(outputGradient *mat.Dense) *mat.Dense {
	return outputGradient
}

// Predict returns input unchanged.
func (l *Input) Predict(input *mat.Dense) *mat.Dense {
	checkWidth("nn.Input.Predict", input, l.shape.Size())
	return input
}

// Parameters returns nil.
func (l *Input) Parameters() []*Parameter { return nil }

// UpdateParameters is a no-op.
func (l *Input) UpdateParameters(UpdateRule) {}

// Clone returns a copy of the layer.
func (l *Input) Clone() Layer {
	return &Input{shape: l.shape}
}
