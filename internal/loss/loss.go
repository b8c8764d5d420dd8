// Package loss implements the loss functions that pair with the output
// layers of internal/nn.
//
// Losses are stateless. Both methods take the output of the network's last
// layer and the encoded targets of the same shape: one-hot rows for
// classification, the value columns for regression. Gradients are averaged
// over the batch so that learning rates do not depend on the batch size.
package loss

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/nn"
)

// Loss scores a batch of predictions and derives the gradient that starts
// the backward pass.
type Loss interface {
	// Name returns a short identifier used in logs.
	Name() string

	// Loss returns the mean loss over the batch.
	Loss(predicted, targets *mat.Dense) float64

	// Gradient returns dLoss/dPredicted with the shape of predicted.
	Gradient(predicted, targets *mat.Dense) *mat.Dense
}

// ForOutput returns the loss that pairs with the given output layer kind.
//
//   - svm: Hinge
//   - softmax: CrossEntropy
//   - squared_error: SquaredError
func ForOutput(kind nn.Kind) (Loss, error) {
	switch kind {
	case nn.KindSVM:
		return NewHinge(), nil
	case nn.KindSoftMax:
		return NewCrossEntropy(), nil
	case nn.KindSquaredError:
		return NewSquaredError(), nil
	default:
		return nil, fmt.Errorf("no loss pairs with %s layer", kind)
	}
}

// ErrIncompatibleLoss is returned when a loss cannot drive the backward
// pass of an output layer.
var ErrIncompatibleLoss = errors.New("loss does not pair with output layer")

// CheckPairing returns ErrIncompatibleLoss unless l derives a correct
// gradient for the output layer kind.
//
// SoftMax.Backward expects the gradient w.r.t. the pre-softmax scores, which
// only CrossEntropy produces, and CrossEntropy's gradient is only valid
// behind a softmax. SVM and SquaredError pass gradients through unchanged
// and accept any other loss.
func CheckPairing(l Loss, kind nn.Kind) error {
	_, isCrossEntropy := l.(*CrossEntropy)
	if (kind == nn.KindSoftMax) != isCrossEntropy {
		return fmt.Errorf("%w: %s cannot train a %s layer", ErrIncompatibleLoss, l.Name(), kind)
	}
	return nil
}

// checkDims panics unless predicted and targets have the same non-empty shape.
func checkDims(name string, predicted, targets *mat.Dense) (rows, cols int) {
	if predicted == nil || targets == nil {
		panic(name + ": nil matrix")
	}
	rows, cols = predicted.Dims()
	tr, tc := targets.Dims()
	if rows != tr || cols != tc {
		panic(fmt.Sprintf("%s: predicted is %dx%d but targets are %dx%d", name, rows, cols, tr, tc))
	}
	return rows, cols
}

// argmax returns the index of the first maximal value.
func argmax(row []float64) int {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return best
}
