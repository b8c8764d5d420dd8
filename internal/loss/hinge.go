package loss

import (
	"gonum.org/v1/gonum/mat"
)

// Hinge is the multiclass margin loss used with nn.SVM.
//
// For a row with scores s and true class y:
//
//	L = Σ_{j≠y} max(0, s_j - s_y + margin)
//
// The reported value is the mean over the batch. The true class is the
// position of the largest entry of the one-hot target row.
type Hinge struct {
	margin float64
}

// NewHinge creates a hinge loss with margin 1.
func NewHinge() *Hinge {
	return &Hinge{margin: 1}
}

// Name returns "hinge".
func (h *Hinge) Name() string { return "hinge" }

// Loss returns the mean hinge loss.
func (h *Hinge) Loss(predicted, targets *mat.Dense) float64 {
	rows, _ := checkDims("loss.Hinge", predicted, targets)

	var total float64
	for r := 0; r < rows; r++ {
		scores := predicted.RawRowView(r)
		y := argmax(targets.RawRowView(r))
		for j, s := range scores {
			if j == y {
				continue
			}
			if m := s - scores[y] + h.margin; m > 0 {
				total += m
			}
		}
	}
	return total / float64(rows)
}

// Gradient returns the subgradient of the mean hinge loss.
//
// Each violating class j contributes +1 to its own score and -1 to the
// true class score, scaled by 1/batch.
func (h *Hinge) Gradient(predicted, targets *mat.Dense) *mat.Dense {
	rows, cols := checkDims("loss.Hinge", predicted, targets)
	grad := mat.NewDense(rows, cols, nil)
	scale := 1 / float64(rows)

	for r := 0; r < rows; r++ {
		scores := predicted.RawRowView(r)
		g := grad.RawRowView(r)
		y := argmax(targets.RawRowView(r))
		for j, s := range scores {
			if j == y {
				continue
			}
			if s-scores[y]+h.margin > 0 {
				g[j] += scale
				g[y] -= scale
			}
		}
	}
	return grad
}
