package nn

import (
	"fmt"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Network is an ordered, acyclic chain of layers.
//
// Each layer's output becomes the next layer's input. Shapes are propagated
// eagerly: AddLayer connects the new layer to the previous one and rejects
// it straight away if the shapes disagree, so misconfiguration is caught
// before any data flows.
//
// Invariants:
//   - the first layer is an Input
//   - an output layer, if any, is the last layer
//   - layers are only appended, and not at all once the network is frozen
//
// Example:
//
//	net := nn.NewNetwork()
//	net.AddLayer(nn.NewInput(5))
//	net.AddLayer(nn.NewDense(10, nn.ReLU))
//	net.AddLayer(nn.NewDense(5, nn.Undefined))
//	net.AddLayer(nn.NewSVM(5))
type Network struct {
	layers []Layer
	frozen bool
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{}
}

// NewNetworkOf creates a network from layers, stopping at the first
// AddLayer error.
func NewNetworkOf(layers ...Layer) (*Network, error) {
	n := NewNetwork()
	for _, l := range layers {
		if err := n.AddLayer(l); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// AddLayer appends a layer to the chain.
//
// Returns:
//   - ErrTopologyFrozen once training has started
//   - ErrInvalidLayerOrder if the first layer is not an Input, if an Input
//     is added after the first position, or if anything follows an output layer
//   - ErrShapeMismatch if the layer's declared input shape differs from the
//     previous layer's output shape
//
// A Dense layer created with an activation is followed by an
// ActivationLayer that AddLayer appends automatically.
func (n *Network) AddLayer(layer Layer) error {
	if n.frozen {
		return ErrTopologyFrozen
	}
	if layer == nil {
		return fmt.Errorf("%w: layer", ErrNullArgument)
	}

	index := len(n.layers)
	_, isInput := layer.(*Input)

	if index == 0 {
		if !isInput {
			return fmt.Errorf("%w: first layer must be an input layer, got %s", ErrInvalidLayerOrder, layer.Kind())
		}
		if err := layer.Connect(Shape{}); err != nil {
			return fmt.Errorf("layer 0 (%s): %w", layer.Kind(), err)
		}
		n.layers = append(n.layers, layer)
		return nil
	}

	if isInput {
		return fmt.Errorf("%w: input layer at position %d", ErrInvalidLayerOrder, index)
	}
	if _, ok := n.OutputLayer(); ok {
		return fmt.Errorf("%w: %s layer added after output layer", ErrInvalidLayerOrder, layer.Kind())
	}

	prev := n.layers[index-1]
	if err := layer.Connect(prev.OutputShape()); err != nil {
		return fmt.Errorf("layer %d (%s): %w", index, layer.Kind(), err)
	}
	n.layers = append(n.layers, layer)

	if d, ok := layer.(*Dense); ok && d.Activation() != Undefined {
		act := NewActivationLayer(d.Activation())
		if err := act.Connect(d.OutputShape()); err != nil {
			n.layers = n.layers[:index]
			return fmt.Errorf("layer %d (%s): %w", index+1, act.Kind(), err)
		}
		n.layers = append(n.layers, act)
	}
	return nil
}

// Layers returns the layers in order. The slice must not be modified.
func (n *Network) Layers() []Layer {
	return n.layers
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// InputShape returns the shape of one observation, or the zero Shape for an
// empty network.
func (n *Network) InputShape() Shape {
	if len(n.layers) == 0 {
		return Shape{}
	}
	return n.layers[0].InputShape()
}

// OutputShape returns the shape produced by the last layer.
func (n *Network) OutputShape() Shape {
	if len(n.layers) == 0 {
		return Shape{}
	}
	return n.layers[len(n.layers)-1].OutputShape()
}

// OutputLayer returns the terminating output layer, if the network has one.
func (n *Network) OutputLayer() (OutputLayer, bool) {
	if len(n.layers) == 0 {
		return nil, false
	}
	out, ok := n.layers[len(n.layers)-1].(OutputLayer)
	return out, ok
}

// Freeze forbids further AddLayer calls. The learner freezes a network when
// training starts.
func (n *Network) Freeze() {
	n.frozen = true
}

// Frozen reports whether the topology is frozen.
func (n *Network) Frozen() bool {
	return n.frozen
}

// Initialize draws fresh parameters for every layer from rng.
//
// Layers are initialized in order, so the same rng state always produces
// the same weights.
func (n *Network) Initialize(init Initialization, rng *rand.Rand) {
	for _, l := range n.layers {
		l.Initialize(init, rng)
	}
}

// Forward runs the batch through every layer in order and returns the last
// layer's output. Intermediate activations are cached for Backward.
//
// Panics if the network is empty or the input width is wrong.
func (n *Network) Forward(input *mat.Dense) *mat.Dense {
	n.mustHaveLayers("Forward")
	output := input
	for _, l := range n.layers {
		output = l.Forward(output)
	}
	return output
}

// Backward propagates the loss gradient through every layer in reverse
// order. The gradient w.r.t. the network input is discarded.
func (n *Network) Backward(lossGradient *mat.Dense) {
	n.mustHaveLayers("Backward")
	grad := lossGradient
	for i := len(n.layers) - 1; i >= 0; i-- {
		grad = n.layers[i].Backward(grad)
	}
}

// UpdateParameters applies rule to every trainable parameter.
func (n *Network) UpdateParameters(rule UpdateRule) {
	for _, l := range n.layers {
		l.UpdateParameters(rule)
	}
}

// Parameters returns all trainable parameters in layer order.
func (n *Network) Parameters() []*Parameter {
	var params []*Parameter
	for _, l := range n.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// Predict runs the batch through every layer without touching any cached
// state. Safe for concurrent use as long as nobody trains the network.
func (n *Network) Predict(input *mat.Dense) *mat.Dense {
	n.mustHaveLayers("Predict")
	output := input
	for _, l := range n.layers {
		output = l.Predict(output)
	}
	return output
}

// Clone returns a deep copy of the network.
func (n *Network) Clone() *Network {
	c := &Network{
		layers: make([]Layer, len(n.layers)),
		frozen: n.frozen,
	}
	for i, l := range n.layers {
		c.layers[i] = l.Clone()
	}
	return c
}

// String returns a one-line summary such as "input(1x1x5) -> dense(1x1x10) -> ...".
func (n *Network) String() string {
	parts := make([]string, len(n.layers))
	for i, l := range n.layers {
		if a, ok := l.(*ActivationLayer); ok {
			parts[i] = fmt.Sprintf("%s[%s](%v)", l.Kind(), a.Activation(), l.OutputShape())
			continue
		}
		parts[i] = fmt.Sprintf("%s(%v)", l.Kind(), l.OutputShape())
	}
	return strings.Join(parts, " -> ")
}

func (n *Network) mustHaveLayers(op string) {
	if len(n.layers) == 0 {
		panic("nn.Network." + op + ": network has no layers")
	}
}
