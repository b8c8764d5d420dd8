package containers

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/nn"
)

// TrainingTestSetSplit holds a training set and the test set held out from it.
type TrainingTestSetSplit struct {
	trainingSet *ObservationTargetSet
	testSet     *ObservationTargetSet
}

// NewTrainingTestSetSplit pairs two sets. Both must be non-nil.
func NewTrainingTestSetSplit(trainingSet, testSet *ObservationTargetSet) (*TrainingTestSetSplit, error) {
	if trainingSet == nil {
		return nil, fmt.Errorf("%w: trainingSet", nn.ErrNullArgument)
	}
	if testSet == nil {
		return nil, fmt.Errorf("%w: testSet", nn.ErrNullArgument)
	}
	return &TrainingTestSetSplit{trainingSet: trainingSet, testSet: testSet}, nil
}

// NewTrainingTestSetSplitFromData builds both sets from raw matrices and targets.
func NewTrainingTestSetSplitFromData(
	trainingObservations mat.Matrix, trainingTargets []float64,
	testObservations mat.Matrix, testTargets []float64,
) (*TrainingTestSetSplit, error) {
	train, err := NewObservationTargetSet(trainingObservations, trainingTargets)
	if err != nil {
		return nil, fmt.Errorf("training set: %w", err)
	}
	test, err := NewObservationTargetSet(testObservations, testTargets)
	if err != nil {
		return nil, fmt.Errorf("test set: %w", err)
	}
	return NewTrainingTestSetSplit(train, test)
}

// TrainingSet returns the training set.
func (s *TrainingTestSetSplit) TrainingSet() *ObservationTargetSet {
	return s.trainingSet
}

// TestSet returns the test set.
func (s *TrainingTestSetSplit) TestSet() *ObservationTargetSet {
	return s.testSet
}

// Equal reports whether both training sets and both test sets are equal.
func (s *TrainingTestSetSplit) Equal(other *TrainingTestSetSplit) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.trainingSet.Equal(other.trainingSet) && s.testSet.Equal(other.testSet)
}

// Hash combines the hashes of both sets. Overflow wraps.
func (s *TrainingTestSetSplit) Hash() uint64 {
	if s == nil {
		return 0
	}
	hash := uint64(17)
	hash = hash*23 + s.trainingSet.Hash()
	hash = hash*23 + s.testSet.Hash()
	return hash
}

// RandomSplit shuffles the rows of set with rng and puts the first
// trainFraction of them in the training set, the rest in the test set.
// trainFraction must lie strictly between 0 and 1 and leave at least one
// row on each side.
func RandomSplit(set *ObservationTargetSet, trainFraction float64, rng *rand.Rand) (*TrainingTestSetSplit, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: set", nn.ErrNullArgument)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: rng", nn.ErrNullArgument)
	}
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, fmt.Errorf("train fraction must be in (0, 1), got %g", trainFraction)
	}

	n := set.Len()
	trainRows := int(float64(n) * trainFraction)
	if trainRows == 0 || trainRows == n {
		return nil, fmt.Errorf("%w: %d rows cannot be split at %g", nn.ErrDimensionMismatch, n, trainFraction)
	}

	perm := rng.Perm(n)
	train := set.subset(perm[:trainRows])
	test := set.subset(perm[trainRows:])
	return &TrainingTestSetSplit{trainingSet: train, testSet: test}, nil
}

// subset copies the given rows, in order, into a new set.
func (s *ObservationTargetSet) subset(rows []int) *ObservationTargetSet {
	_, cols := s.observations.Dims()
	obs := mat.NewDense(len(rows), cols, nil)
	targets := make([]float64, len(rows))
	for i, r := range rows {
		obs.SetRow(i, s.observations.RawRowView(r))
		targets[i] = s.targets[r]
	}
	return &ObservationTargetSet{observations: obs, targets: targets}
}
