// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loss provides the loss functions that pair with the output layers.
//
//   - Hinge: multiclass margin loss for nn.SVM
//   - CrossEntropy: negative log-likelihood for nn.SoftMax
//   - SquaredError: half squared Euclidean distance for nn.SquaredError
//
// Targets are encoded matrices of the output's shape: one-hot rows for
// classification, value columns for regression.
package loss

import (
	"github.com/born-ml/learn/internal/loss"
	"github.com/born-ml/learn/internal/nn"
)

// Loss scores a batch of predictions and derives the starting gradient.
type Loss = loss.Loss

// Hinge is the multiclass margin loss.
type Hinge = loss.Hinge

// NewHinge creates a hinge loss with margin 1.
func NewHinge() *Hinge {
	return loss.NewHinge()
}

// CrossEntropy is the negative log-likelihood of softmax probabilities.
type CrossEntropy = loss.CrossEntropy

// NewCrossEntropy creates a cross-entropy loss.
func NewCrossEntropy() *CrossEntropy {
	return loss.NewCrossEntropy()
}

// SquaredError is half the squared distance between outputs and targets.
type SquaredError = loss.SquaredError

// NewSquaredError creates a squared error loss.
func NewSquaredError() *SquaredError {
	return loss.NewSquaredError()
}

// ErrIncompatibleLoss is returned when a loss cannot train an output layer.
var ErrIncompatibleLoss = loss.ErrIncompatibleLoss

// CheckPairing reports whether l derives a correct gradient for the output
// layer kind. SoftMax pairs only with CrossEntropy and CrossEntropy only
// with SoftMax.
func CheckPairing(l Loss, kind nn.Kind) error {
	return loss.CheckPairing(l, kind)
}

// ForOutput returns the loss that pairs with an output layer kind.
func ForOutput(kind nn.Kind) (Loss, error) {
	return loss.ForOutput(kind)
}
