// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/learn/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// EpochAware is implemented by optimizers that follow a schedule.
type EpochAware = optim.EpochAware

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//	net.UpdateParameters(optimizer)
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer.
//
// Example:
//
//	optimizer := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	})
func NewAdam(config AdamConfig) *Adam {
	return optim.NewAdam(config)
}

// Learning rate schedules

// Schedule maps a base learning rate and an epoch to a learning rate.
type Schedule = optim.Schedule

// Constant keeps the learning rate fixed.
type Constant = optim.Constant

// StepDecay multiplies the learning rate by Factor every Every epochs.
type StepDecay = optim.StepDecay

// ExponentialDecay shrinks the learning rate by exp(-Rate) per epoch.
type ExponentialDecay = optim.ExponentialDecay

// Declarative configuration

// Config selects an optimizer declaratively, e.g. from YAML.
type Config = optim.Config

// ScheduleConfig selects a learning rate schedule declaratively.
type ScheduleConfig = optim.ScheduleConfig

// Optimizer and schedule kinds.
const (
	KindSGD             = optim.KindSGD
	KindAdam            = optim.KindAdam
	ScheduleConstant    = optim.ScheduleConstant
	ScheduleStep        = optim.ScheduleStep
	ScheduleExponential = optim.ScheduleExponential
)

// ErrInvalidConfig is returned for out-of-range optimizer settings.
var ErrInvalidConfig = optim.ErrInvalidConfig

// New builds the optimizer described by c.
func New(c Config) (Optimizer, error) {
	return optim.New(c)
}
