// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package learner trains networks with mini-batch gradient descent.
//
// # Basic Usage
//
//	cfg := learner.DefaultConfig()
//	cfg.Epochs = 50
//	cfg.Logger = log.Default()
//
//	l, err := learner.New(net, nil, cfg)
//	if err != nil {
//	    return err
//	}
//	m, err := l.Learn(ctx, observations, targets)
//
// A nil loss selects the loss paired with the network's output layer.
// Runs are deterministic for a given Config.Seed.
//
// # Configuration
//
// Training configs can be kept in YAML:
//
//	epochs: 50
//	batch_size: 32
//	optimizer:
//	  kind: sgd
//	  lr: 0.05
//	  momentum: 0.9
//
//	cfg, err := learner.DecodeConfig(file)
package learner

import (
	"io"

	"github.com/born-ml/learn/internal/learner"
	"github.com/born-ml/learn/internal/loss"
	"github.com/born-ml/learn/internal/nn"
)

// Learner fits a network template to data.
type Learner = learner.Learner

// Config captures the knobs of a training run.
type Config = learner.Config

// EpochStats summarizes one finished epoch.
type EpochStats = learner.EpochStats

// State is the lifecycle stage of a training run.
type State = learner.State

// Training states.
const (
	Initialized       = learner.Initialized
	Training          = learner.Training
	Converged         = learner.Converged
	EpochLimitReached = learner.EpochLimitReached
	Cancelled         = learner.Cancelled
	Failed            = learner.Failed
)

// Default hyperparameters.
const (
	DefaultEpochs    = learner.DefaultEpochs
	DefaultBatchSize = learner.DefaultBatchSize
	DefaultSeed      = learner.DefaultSeed
	DefaultLogEvery  = learner.DefaultLogEvery
)

// ErrInvalidConfig is returned for out-of-range training settings.
var ErrInvalidConfig = learner.ErrInvalidConfig

// New creates a learner for network. A nil lossFn selects the loss paired
// with the output layer.
func New(network *nn.Network, lossFn loss.Loss, cfg Config) (*Learner, error) {
	return learner.New(network, lossFn, cfg)
}

// DefaultConfig returns 100 epochs of shuffled batches of 128 with Adam.
func DefaultConfig() Config {
	return learner.DefaultConfig()
}

// DecodeConfig reads a YAML training config on top of DefaultConfig.
func DecodeConfig(r io.Reader) (Config, error) {
	return learner.DecodeConfig(r)
}
