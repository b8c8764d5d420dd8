// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/learn/internal/nn"
)

// Shape is the Width x Height x Depth extent of one observation.
type Shape = nn.Shape

// Flat returns the shape of a flat vector of n values.
func Flat(n int) Shape {
	return nn.Flat(n)
}

// Parameter is a trainable weight matrix or bias vector of a layer.
type Parameter = nn.Parameter

// UpdateRule applies an optimizer update to one parameter.
type UpdateRule = nn.UpdateRule

// Activations

// Activation is an element-wise nonlinearity.
type Activation = nn.Activation

// Supported activations.
const (
	Undefined = nn.Undefined
	ReLU      = nn.ReLU
	Sigmoid   = nn.Sigmoid
	Tanh      = nn.Tanh
	SoftPlus  = nn.SoftPlus
)

// ParseActivation parses a persisted activation name such as "relu".
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

// Initialization

// Initialization selects the distribution of fresh weights.
type Initialization = nn.Initialization

// Weight initializations.
const (
	GlorotUniform = nn.GlorotUniform
	HeUniform     = nn.HeUniform
)

// ParseInitialization parses "glorot_uniform" or "he_uniform".
func ParseInitialization(name string) (Initialization, error) {
	return nn.ParseInitialization(name)
}

// Layers

// Kind is the persisted type tag of a layer.
type Kind = nn.Kind

// Layer kinds.
const (
	KindInput        = nn.KindInput
	KindDense        = nn.KindDense
	KindActivation   = nn.KindActivation
	KindSVM          = nn.KindSVM
	KindSoftMax      = nn.KindSoftMax
	KindSquaredError = nn.KindSquaredError
)

// Layer is one stage of a network.
type Layer = nn.Layer

// OutputLayer terminates a network and pairs with a loss.
type OutputLayer = nn.OutputLayer

// Task tells whether a network classifies or regresses.
type Task = nn.Task

// Tasks.
const (
	Classification = nn.Classification
	Regression     = nn.Regression
)

// Input is the first layer of every network.
type Input = nn.Input

// NewInput creates an input layer for flat observations of the given width.
//
// Example:
//
//	net.AddLayer(nn.NewInput(784))
func NewInput(features int) *Input {
	return nn.NewInput(features)
}

// NewInputShape creates an input layer with an explicit shape.
func NewInputShape(shape Shape) *Input {
	return nn.NewInputShape(shape)
}

// Dense is a fully connected layer.
type Dense = nn.Dense

// DenseOption configures a Dense layer.
type DenseOption = nn.DenseOption

// NewDense creates a fully connected layer. A non-Undefined activation is
// applied by an ActivationLayer that Network.AddLayer appends.
//
// Example:
//
//	net.AddLayer(nn.NewDense(128, nn.ReLU))
func NewDense(units int, activation Activation, opts ...DenseOption) *Dense {
	return nn.NewDense(units, activation, opts...)
}

// WithDeclaredInput makes AddLayer reject a Dense layer whose previous
// layer does not produce exactly shape.
func WithDeclaredInput(shape Shape) DenseOption {
	return nn.WithDeclaredInput(shape)
}

// ActivationLayer applies an activation element-wise.
type ActivationLayer = nn.ActivationLayer

// NewActivationLayer creates an activation layer.
func NewActivationLayer(activation Activation) *ActivationLayer {
	return nn.NewActivationLayer(activation)
}

// Output layers

// SVM is the linear multiclass output scored by the hinge loss.
type SVM = nn.SVM

// NewSVM creates an SVM output layer over the given number of classes.
func NewSVM(classes int) *SVM {
	return nn.NewSVM(classes)
}

// SoftMax is the probabilistic output scored by cross-entropy.
type SoftMax = nn.SoftMax

// NewSoftMax creates a softmax output layer.
func NewSoftMax(classes int) *SoftMax {
	return nn.NewSoftMax(classes)
}

// SquaredError is the regression output scored by the squared error.
type SquaredError = nn.SquaredError

// NewSquaredError creates a regression output layer.
func NewSquaredError(outputs int) *SquaredError {
	return nn.NewSquaredError(outputs)
}

// NewOutput creates the output layer of the given kind.
func NewOutput(kind Kind, size int) (OutputLayer, error) {
	return nn.NewOutput(kind, size)
}

// Network

// Network is an ordered chain of layers.
type Network = nn.Network

// NewNetwork creates an empty network.
//
// Example:
//
//	net := nn.NewNetwork()
//	net.AddLayer(nn.NewInput(5))
//	net.AddLayer(nn.NewDense(10, nn.ReLU))
//	net.AddLayer(nn.NewDense(5, nn.Undefined))
//	net.AddLayer(nn.NewSVM(5))
func NewNetwork() *Network {
	return nn.NewNetwork()
}

// NewNetworkOf creates a network from layers in order.
func NewNetworkOf(layers ...Layer) (*Network, error) {
	return nn.NewNetworkOf(layers...)
}

// Errors

// Errors returned by network construction, training and prediction.
var (
	ErrShapeMismatch      = nn.ErrShapeMismatch
	ErrInvalidLayerOrder  = nn.ErrInvalidLayerOrder
	ErrTopologyFrozen     = nn.ErrTopologyFrozen
	ErrInvalidActivation  = nn.ErrInvalidActivation
	ErrDimensionMismatch  = nn.ErrDimensionMismatch
	ErrInvalidTarget      = nn.ErrInvalidTarget
	ErrNullArgument       = nn.ErrNullArgument
	ErrNotClassifier      = nn.ErrNotClassifier
	ErrNumericInstability = nn.ErrNumericInstability
)
