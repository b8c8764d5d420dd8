package nn

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Configuration errors, returned synchronously by Network.AddLayer.
var (
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrInvalidLayerOrder = errors.New("invalid layer order")
	ErrTopologyFrozen    = errors.New("network topology is frozen")
	ErrInvalidActivation = errors.New("invalid activation")
)

// Input validation errors, returned at Learn / Predict entry.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrNullArgument      = errors.New("null argument")
	ErrNotClassifier     = errors.New("model is not a classifier")
)

// ErrNumericInstability is returned when the training loss becomes NaN or Inf.
var ErrNumericInstability = errors.New("numeric instability: loss is not finite")

// CheckMatrix returns ErrNullArgument, naming the argument, when m is nil,
// a typed nil *mat.Dense or *mat.VecDense, or an empty (zero value) matrix.
func CheckMatrix(m mat.Matrix, name string) error {
	var empty bool
	switch v := m.(type) {
	case nil:
		empty = true
	case *mat.Dense:
		empty = v == nil || v.IsEmpty()
	case *mat.VecDense:
		empty = v == nil || v.IsEmpty()
	}
	if empty {
		return fmt.Errorf("%w: %s", ErrNullArgument, name)
	}
	return nil
}
