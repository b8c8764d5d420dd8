// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the parameter update rules used to train networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum, Nesterov and L2 decay
//   - Adam: Adaptive Moment Estimation with bias correction and L2 decay
//   - Schedules: Constant, StepDecay, ExponentialDecay
//   - Config: declarative selection, e.g. from a YAML training config
//
// # Basic Usage
//
//	optimizer := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	})
//
//	for epoch := range numEpochs {
//	    optimizer.SetEpoch(epoch)
//	    for _, batch := range batches {
//	        out := net.Forward(batch.X)
//	        net.Backward(lossFn.Gradient(out, batch.Y))
//	        net.UpdateParameters(optimizer)
//	    }
//	}
//
// Optimizers key their state by parameter, so one optimizer serves one
// network.
//
// # Schedules
//
// The learning rate for each epoch is the schedule applied to the base
// rate:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.1,
//	    Momentum: 0.9,
//	    Schedule: optim.StepDecay{Every: 10, Factor: 0.5},
//	})
package optim
