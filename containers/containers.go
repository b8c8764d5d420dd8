// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package containers provides the training data containers.
//
// Both types copy their input, never change afterwards and compare
// structurally with exact float equality.
package containers

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/containers"
)

// ObservationTargetSet pairs an observation matrix with one target per row.
type ObservationTargetSet = containers.ObservationTargetSet

// TrainingTestSetSplit holds a training set and its held-out test set.
type TrainingTestSetSplit = containers.TrainingTestSetSplit

// NewObservationTargetSet copies observations and targets into a new set.
func NewObservationTargetSet(observations mat.Matrix, targets []float64) (*ObservationTargetSet, error) {
	return containers.NewObservationTargetSet(observations, targets)
}

// NewTrainingTestSetSplit pairs a training set with a test set.
func NewTrainingTestSetSplit(trainingSet, testSet *ObservationTargetSet) (*TrainingTestSetSplit, error) {
	return containers.NewTrainingTestSetSplit(trainingSet, testSet)
}

// NewTrainingTestSetSplitFromData builds both sets from raw data.
func NewTrainingTestSetSplitFromData(
	trainingObservations mat.Matrix, trainingTargets []float64,
	testObservations mat.Matrix, testTargets []float64,
) (*TrainingTestSetSplit, error) {
	return containers.NewTrainingTestSetSplitFromData(trainingObservations, trainingTargets, testObservations, testTargets)
}

// RandomSplit shuffles set with rng and holds out 1-trainFraction of its
// rows as the test set.
func RandomSplit(set *ObservationTargetSet, trainFraction float64, rng *rand.Rand) (*TrainingTestSetSplit, error) {
	return containers.RandomSplit(set, trainFraction, rng)
}
