package loss

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// minProbability keeps log() finite when a probability underflows to zero.
const minProbability = 1e-15

// CrossEntropy computes the categorical cross-entropy of softmax outputs.
//
// Mathematical formulation:
//
//	L = -mean_rows Σ_k t_k · log(p_k)
//
// Gradient (w.r.t. the scores feeding the softmax):
//
//	∂L/∂scores = (p - t) / batch
//
// The combined softmax + cross-entropy gradient is returned here, which is
// why nn.SoftMax passes its output gradient through unchanged.
type CrossEntropy struct{}

// NewCrossEntropy creates a cross-entropy loss.
func NewCrossEntropy() *CrossEntropy {
	return &CrossEntropy{}
}

// Name returns "cross_entropy".
func (c *CrossEntropy) Name() string { return "cross_entropy" }

// Loss returns the mean cross-entropy. predicted must hold probabilities.
func (c *CrossEntropy) Loss(predicted, targets *mat.Dense) float64 {
	rows, _ := checkDims("loss.CrossEntropy", predicted, targets)

	var total float64
	for r := 0; r < rows; r++ {
		p := predicted.RawRowView(r)
		for k, t := range targets.RawRowView(r) {
			if t == 0 {
				continue
			}
			total -= t * math.Log(math.Max(p[k], minProbability))
		}
	}
	return total / float64(rows)
}

// Gradient returns (p - t) / batch.
func (c *CrossEntropy) Gradient(predicted, targets *mat.Dense) *mat.Dense {
	rows, cols := checkDims("loss.CrossEntropy", predicted, targets)
	grad := mat.NewDense(rows, cols, nil)
	scale := 1 / float64(rows)

	for r := 0; r < rows; r++ {
		g := grad.RawRowView(r)
		floats.SubTo(g, predicted.RawRowView(r), targets.RawRowView(r))
		floats.Scale(scale, g)
	}
	return grad
}
