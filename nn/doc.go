// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers and the network graph.
//
// # Overview
//
// This package contains:
//   - Input: the first layer, fixing the observation shape
//   - Dense: fully connected layer with an optional activation
//   - ActivationLayer: ReLU, Sigmoid, Tanh, SoftPlus or identity
//   - Output layers: SVM and SoftMax for classification, SquaredError for regression
//   - Network: ordered chain with eager shape checks
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/learn/learner"
//	    "github.com/born-ml/learn/nn"
//	)
//
//	func main() {
//	    net := nn.NewNetwork()
//	    net.AddLayer(nn.NewInput(5))
//	    net.AddLayer(nn.NewDense(10, nn.ReLU))
//	    net.AddLayer(nn.NewDense(5, nn.Undefined))
//	    net.AddLayer(nn.NewSVM(5))
//
//	    l, _ := learner.New(net, nil, learner.DefaultConfig())
//	    model, _ := l.Learn(ctx, observations, targets)
//	}
//
// # Shapes
//
// AddLayer connects each layer to the output shape of the previous one and
// returns ErrShapeMismatch straight away when they disagree. A Dense layer
// with an activation is followed by an ActivationLayer added
// automatically:
//
//	net.AddLayer(nn.NewDense(10, nn.ReLU)) // dense(1x1x10) -> activation[relu](1x1x10)
//
// # Training
//
// Gradients are derived per layer type:
//
//	out := net.Forward(batch)
//	net.Backward(lossGradient)
//	net.UpdateParameters(optimizer)
//
// Most users let the learner package drive this loop.
package nn
