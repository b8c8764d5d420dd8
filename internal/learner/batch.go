package learner

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/nn"
)

// batcher gathers mini-batches of rows into reused buffers.
//
// Two buffer pairs are kept: one for full batches and one for the shorter
// tail batch, so no epoch allocates after the first.
type batcher struct {
	x, y     *mat.Dense
	size     int
	full     [2]*mat.Dense
	tail     [2]*mat.Dense
	tailSize int
}

func newBatcher(x, y *mat.Dense, size int) *batcher {
	return &batcher{x: x, y: y, size: size}
}

// count returns the number of batches per epoch.
func (b *batcher) count() int {
	rows, _ := b.x.Dims()
	return (rows + b.size - 1) / b.size
}

// batch returns the observations and encoded targets of the i-th batch in
// the given row order. The matrices are overwritten by the next call.
func (b *batcher) batch(i int, order []int) (x, y *mat.Dense) {
	start := i * b.size
	end := min(start+b.size, len(order))
	rows := order[start:end]

	bufs := &b.full
	if len(rows) != b.size {
		bufs = &b.tail
		if b.tailSize != len(rows) {
			bufs[0], bufs[1] = nil, nil
			b.tailSize = len(rows)
		}
	}
	if bufs[0] == nil {
		_, xc := b.x.Dims()
		_, yc := b.y.Dims()
		bufs[0] = mat.NewDense(len(rows), xc, nil)
		bufs[1] = mat.NewDense(len(rows), yc, nil)
	}

	for k, r := range rows {
		bufs[0].SetRow(k, b.x.RawRowView(r))
		bufs[1].SetRow(k, b.y.RawRowView(r))
	}
	return bufs[0], bufs[1]
}

// prepare checks observations and targets against the network and returns
// the observations as a dense copy plus the encoded target matrix.
//
// Classification targets become one-hot rows: target t sets column t, so
// targets must be integral class positions in [0, classes). Regression
// targets form a single column and the network must have one output.
func prepare(network *nn.Network, observations mat.Matrix, targets []float64) (x, y *mat.Dense, err error) {
	if err := nn.CheckMatrix(observations, "observations"); err != nil {
		return nil, nil, err
	}
	if targets == nil {
		return nil, nil, fmt.Errorf("%w: targets", nn.ErrNullArgument)
	}
	rows, cols := observations.Dims()
	if rows != len(targets) {
		return nil, nil, fmt.Errorf("%w: %d observations but %d targets", nn.ErrDimensionMismatch, rows, len(targets))
	}
	if features := network.InputShape().Size(); cols != features {
		return nil, nil, fmt.Errorf("%w: observations have %d features, network expects %d",
			nn.ErrDimensionMismatch, cols, features)
	}

	output, ok := network.OutputLayer()
	if !ok {
		return nil, nil, fmt.Errorf("%w: network does not end in an output layer", nn.ErrInvalidLayerOrder)
	}
	width := output.OutputShape().Size()

	switch output.Task() {
	case nn.Classification:
		y = mat.NewDense(rows, width, nil)
		for i, t := range targets {
			if t != math.Trunc(t) || t < 0 || t >= float64(width) {
				return nil, nil, fmt.Errorf("%w: target %v at row %d is not a class in [0, %d)",
					nn.ErrInvalidTarget, t, i, width)
			}
			y.Set(i, int(t), 1)
		}
	default:
		if width != 1 {
			return nil, nil, fmt.Errorf("%w: regression needs a single output, network has %d",
				nn.ErrInvalidTarget, width)
		}
		for i, t := range targets {
			if math.IsNaN(t) || math.IsInf(t, 0) {
				return nil, nil, fmt.Errorf("%w: target at row %d is not finite", nn.ErrInvalidTarget, i)
			}
		}
		y = mat.NewDense(rows, 1, append([]float64(nil), targets...))
	}

	return mat.DenseCopyOf(observations), y, nil
}
