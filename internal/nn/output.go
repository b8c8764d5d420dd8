package nn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/parallel"
)

// outputBase holds what every output layer shares: a fixed width that must
// match the previous layer, and a task.
type outputBase struct {
	kind  Kind
	task  Task
	size  int
	shape Shape
}

func (o *outputBase) Kind() Kind         { return o.kind }
func (o *outputBase) Task() Task         { return o.task }
func (o *outputBase) InputShape() Shape  { return o.shape }
func (o *outputBase) OutputShape() Shape { return o.shape }

// Size returns the number of outputs (classes for classification layers).
func (o *outputBase) Size() int { return o.size }

func (o *outputBase) Initialize(Initialization, *rand.Rand) {}
func (o *outputBase) Parameters() []*Parameter              { return nil }
func (o *outputBase) UpdateParameters(UpdateRule)           {}

// Connect requires the previous layer to produce exactly Size() values.
func (o *outputBase) Connect(input Shape) error {
	if o.size <= 0 {
		return fmt.Errorf("%w: %s layer needs a positive size, got %d", ErrShapeMismatch, o.kind, o.size)
	}
	if input.Size() != o.size {
		return fmt.Errorf("%w: %s layer with %d outputs cannot follow a layer producing %v",
			ErrShapeMismatch, o.kind, o.size, input)
	}
	o.shape = Flat(o.size)
	return nil
}

// SVM is a linear output layer with loss-layer semantics.
//
// Forward passes the class scores through unchanged; Backward passes the
// margin loss gradient through unchanged. Pair it with loss.Hinge.
type SVM struct {
	outputBase
}

// NewSVM creates an SVM output layer for the given number of classes.
func NewSVM(classes int) *SVM {
	return &SVM{outputBase{kind: KindSVM, task: Classification, size: classes}}
}

// Forward returns input unchanged.
func (s *SVM) Forward(input *mat.Dense) *mat.Dense {
	checkWidth("nn.SVM.Forward", input, s.size)
	return input
}

// Backward returns outputGradient unchanged.
func (s *SVM) Backward(outputGradient *mat.Dense) *mat.Dense {
	return outputGradient
}

// Predict returns input unchanged.
func (s *SVM) Predict(input *mat.Dense) *mat.Dense {
	checkWidth("nn.SVM.Predict", input, s.size)
	return input
}

// Clone returns a copy of the layer.
func (s *SVM) Clone() Layer {
	c := *s
	return &c
}

// SoftMax turns class scores into probabilities row by row.
//
// Backward expects the gradient w.r.t. the scores feeding the softmax,
// which for cross-entropy is simply (p - y); see loss.CrossEntropy. It
// therefore passes the gradient through unchanged.
type SoftMax struct {
	outputBase
	output *mat.Dense
	cfg    parallel.Config
}

// NewSoftMax creates a softmax output layer for the given number of classes.
func NewSoftMax(classes int) *SoftMax {
	return &SoftMax{
		outputBase: outputBase{kind: KindSoftMax, task: Classification, size: classes},
		cfg:        parallel.DefaultConfig(),
	}
}

// Forward computes the row-wise softmax.
func (s *SoftMax) Forward(input *mat.Dense) *mat.Dense {
	checkWidth("nn.SoftMax.Forward", input, s.size)
	rows, _ := input.Dims()
	s.output = resize(s.output, rows, s.size)
	s.softmax(input, s.output)
	return s.output
}

// Backward returns outputGradient unchanged.
func (s *SoftMax) Backward(outputGradient *mat.Dense) *mat.Dense {
	if s.output == nil {
		panic("nn.SoftMax.Backward: called before Forward")
	}
	return outputGradient
}

// Predict computes the row-wise softmax into a fresh matrix.
func (s *SoftMax) Predict(input *mat.Dense) *mat.Dense {
	checkWidth("nn.SoftMax.Predict", input, s.size)
	rows, _ := input.Dims()
	output := mat.NewDense(rows, s.size, nil)
	s.softmax(input, output)
	return output
}

// softmax uses the max-subtraction trick so exp never overflows.
func (s *SoftMax) softmax(input, output *mat.Dense) {
	rows, _ := input.Dims()
	parallel.For(rows, func(r int) {
		x := input.RawRowView(r)
		y := output.RawRowView(r)
		maxVal := math.Inf(-1)
		for _, v := range x {
			maxVal = math.Max(maxVal, v)
		}
		var sum float64
		for k, v := range x {
			y[k] = math.Exp(v - maxVal)
			sum += y[k]
		}
		for k := range y {
			y[k] /= sum
		}
	}, s.cfg)
}

// Clone returns a copy of the layer.
func (s *SoftMax) Clone() Layer {
	return &SoftMax{outputBase: s.outputBase, cfg: s.cfg}
}

// SquaredError is a linear regression output layer. Pair it with
// loss.SquaredError.
type SquaredError struct {
	outputBase
}

// NewSquaredError creates a regression output layer with the given number
// of outputs.
func NewSquaredError(outputs int) *SquaredError {
	return &SquaredError{outputBase{kind: KindSquaredError, task: Regression, size: outputs}}
}

// Forward returns input unchanged.
func (s *SquaredError) Forward(input *mat.Dense) *mat.Dense {
	checkWidth("nn.SquaredError.Forward", input, s.size)
	return input
}

// Backward returns outputGradient unchanged.
func (s *SquaredError) Backward(outputGradient *mat.Dense) *mat.Dense {
	return outputGradient
}

// Predict returns input unchanged.
func (s *SquaredError) Predict(input *mat.Dense) *mat.Dense {
	checkWidth("nn.SquaredError.Predict", input, s.size)
	return input
}

// Clone returns a copy of the layer.
func (s *SquaredError) Clone() Layer {
	c := *s
	return &c
}

// NewOutput creates the output layer registered for kind.
func NewOutput(kind Kind, size int) (OutputLayer, error) {
	switch kind {
	case KindSVM:
		return NewSVM(size), nil
	case KindSoftMax:
		return NewSoftMax(size), nil
	case KindSquaredError:
		return NewSquaredError(size), nil
	default:
		return nil, fmt.Errorf("%q is not an output layer kind", kind)
	}
}
