package loss

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SquaredError is the regression loss used with nn.SquaredError.
//
//	L = mean_rows ½ Σ_k (o_k - t_k)²
//	∂L/∂o = (o - t) / batch
type SquaredError struct{}

// NewSquaredError creates a squared-error loss.
func NewSquaredError() *SquaredError {
	return &SquaredError{}
}

// Name returns "squared_error".
func (s *SquaredError) Name() string { return "squared_error" }

// Loss returns the mean half squared error.
func (s *SquaredError) Loss(predicted, targets *mat.Dense) float64 {
	rows, _ := checkDims("loss.SquaredError", predicted, targets)

	var total float64
	for r := 0; r < rows; r++ {
		d := floats.Distance(predicted.RawRowView(r), targets.RawRowView(r), 2)
		total += 0.5 * d * d
	}
	return total / float64(rows)
}

// Gradient returns (o - t) / batch.
func (s *SquaredError) Gradient(predicted, targets *mat.Dense) *mat.Dense {
	rows, cols := checkDims("loss.SquaredError", predicted, targets)
	grad := mat.NewDense(rows, cols, nil)
	grad.Sub(predicted, targets)
	grad.Scale(1/float64(rows), grad)
	return grad
}
