// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model provides trained, immutable networks.
//
// # Prediction
//
//	label, err := m.Predict(row)
//	labels, err := m.PredictBatch(observations)
//	p, err := m.PredictProbability(row) // classifiers only
//
// Models are safe for concurrent predictions.
//
// # Persistence
//
// Models are stored as self-describing, versioned JSON documents with a
// SHA-256 checksum:
//
//	err := m.SaveFile("model.json")
//	m, err := model.LoadFile("model.json")
//
// Saving the same model always yields the same bytes. Documents that fail
// validation are rejected with a *FormatError and no model.
package model

import (
	"io"

	"github.com/born-ml/learn/internal/model"
	"github.com/born-ml/learn/internal/nn"
	"github.com/born-ml/learn/internal/serialization"
)

// Model is an immutable trained network plus its targets.
type Model = model.Model

// ProbabilityPrediction is a class prediction with class probabilities.
type ProbabilityPrediction = model.ProbabilityPrediction

// FormatError describes a rejected model document.
type FormatError = serialization.FormatError

// Load errors.
var (
	ErrFormat           = serialization.ErrFormat
	ErrVersionMismatch  = serialization.ErrVersionMismatch
	ErrChecksumMismatch = serialization.ErrChecksumMismatch
)

// New builds a model over a deep copy of a trained network.
func New(network *nn.Network, targets []float64) (*Model, error) {
	return model.New(network, targets)
}

// Load reads a model saved by Model.Save.
func Load(r io.Reader) (*Model, error) {
	return model.Load(r)
}

// LoadFrom opens a reader with open, loads a model and closes the reader.
func LoadFrom(open func() (io.ReadCloser, error)) (*Model, error) {
	return model.LoadFrom(open)
}

// LoadFile loads the model stored at path.
func LoadFile(path string) (*Model, error) {
	return model.LoadFile(path)
}
