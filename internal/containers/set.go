// Package containers holds the value types that carry training data
// between dataset splitting and the learner.
//
// Both containers are immutable after construction and compare
// structurally: two sets are equal when every observation and every target
// is exactly equal. There is no floating-point tolerance.
package containers

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/nn"
)

// ObservationTargetSet pairs an observation matrix with one target per row.
type ObservationTargetSet struct {
	observations *mat.Dense
	targets      []float64
}

// NewObservationTargetSet copies observations and targets into a new set.
//
// Returns:
//   - ErrNullArgument if either argument is nil
//   - ErrDimensionMismatch if the row count differs from len(targets)
func NewObservationTargetSet(observations mat.Matrix, targets []float64) (*ObservationTargetSet, error) {
	if err := nn.CheckMatrix(observations, "observations"); err != nil {
		return nil, err
	}
	if targets == nil {
		return nil, fmt.Errorf("%w: targets", nn.ErrNullArgument)
	}
	rows, _ := observations.Dims()
	if rows != len(targets) {
		return nil, fmt.Errorf("%w: %d observations but %d targets", nn.ErrDimensionMismatch, rows, len(targets))
	}
	return &ObservationTargetSet{
		observations: mat.DenseCopyOf(observations),
		targets:      append([]float64(nil), targets...),
	}, nil
}

// Observations returns the observation matrix. It must not be modified.
func (s *ObservationTargetSet) Observations() *mat.Dense {
	return s.observations
}

// Targets returns the targets. The slice must not be modified.
func (s *ObservationTargetSet) Targets() []float64 {
	return s.targets
}

// Len returns the number of rows.
func (s *ObservationTargetSet) Len() int {
	return len(s.targets)
}

// Equal reports whether both sets hold exactly the same values.
func (s *ObservationTargetSet) Equal(other *ObservationTargetSet) bool {
	if s == nil || other == nil {
		return s == other
	}
	return mat.Equal(s.observations, other.observations) &&
		floats.Equal(s.targets, other.targets)
}

// Hash returns a structural hash consistent with Equal.
func (s *ObservationTargetSet) Hash() uint64 {
	if s == nil {
		return 0
	}
	h := fnv.New64a()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	rows, cols := s.observations.Dims()
	write(uint64(rows))
	write(uint64(cols))
	for r := 0; r < rows; r++ {
		for _, v := range s.observations.RawRowView(r) {
			write(canonicalBits(v))
		}
	}
	for _, v := range s.targets {
		write(canonicalBits(v))
	}
	return h.Sum64()
}

// canonicalBits maps -0 to +0 and every NaN to one payload so that values
// Equal treats as the same hash the same.
func canonicalBits(v float64) uint64 {
	switch {
	case v == 0:
		return 0
	case math.IsNaN(v):
		return math.Float64bits(math.NaN())
	default:
		return math.Float64bits(v)
	}
}
