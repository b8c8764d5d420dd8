package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/parallel"
)

// Dense implements a fully connected layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input with shape [batch_size, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output with shape [batch_size, out_features]
//
// A Dense layer is always linear. When it is created with an activation,
// Network.AddLayer appends an ActivationLayer right after it, so the graph
// (and the persisted model) holds the nonlinearity as its own layer.
//
// Example:
//
//	net := nn.NewNetwork()
//	net.AddLayer(nn.NewInput(784))
//	net.AddLayer(nn.NewDense(128, nn.ReLU)) // dense + relu
type Dense struct {
	units      int
	activation Activation
	declared   Shape // optional declared input shape
	input      Shape

	weights    *mat.Dense    // [in_features, out_features]
	bias       *mat.VecDense // [out_features]
	weightGrad *mat.Dense
	biasGrad   *mat.VecDense
	params     []*Parameter

	// Transient per-batch buffers.
	lastInput *mat.Dense
	output    *mat.Dense
	delta     *mat.Dense

	cfg parallel.Config
}

// DenseOption configures a Dense layer.
type DenseOption func(*Dense)

// WithDeclaredInput makes Connect fail unless the previous layer outputs
// exactly this shape.
func WithDeclaredInput(shape Shape) DenseOption {
	return func(d *Dense) { d.declared = shape }
}

// WithParallel overrides the row-parallel configuration of the layer.
func WithParallel(cfg parallel.Config) DenseOption {
	return func(d *Dense) { d.cfg = cfg }
}

// NewDense creates a fully connected layer with the given number of units.
//
// Parameters:
//   - units: Number of output features
//   - activation: Nonlinearity appended after the layer (Undefined for none)
//   - opts: Optional settings
//
// Weights are allocated once the layer is connected to a network and drawn
// by Initialize.
func NewDense(units int, activation Activation, opts ...DenseOption) *Dense {
	d := &Dense{
		units:      units,
		activation: activation,
		cfg:        parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Kind returns KindDense.
func (d *Dense) Kind() Kind { return KindDense }

// Units returns the number of output features.
func (d *Dense) Units() int { return d.units }

// Activation returns the activation requested at construction time.
func (d *Dense) Activation() Activation { return d.activation }

// Connect allocates weights for the given input shape.
func (d *Dense) Connect(input Shape) error {
	if d.units <= 0 {
		return fmt.Errorf("%w: dense layer needs a positive number of units, got %d", ErrShapeMismatch, d.units)
	}
	if !input.Valid() {
		return fmt.Errorf("%w: dense layer cannot take input shape %v", ErrShapeMismatch, input)
	}
	if !d.declared.IsZero() && d.declared != input {
		return fmt.Errorf("%w: dense layer declares input %v, previous layer outputs %v",
			ErrShapeMismatch, d.declared, input)
	}

	in := input.Size()
	d.input = input
	d.weights = mat.NewDense(in, d.units, nil)
	d.bias = mat.NewVecDense(d.units, nil)
	d.weightGrad = mat.NewDense(in, d.units, nil)
	d.biasGrad = mat.NewVecDense(d.units, nil)
	d.params = []*Parameter{
		NewParameter("weights", in, d.units, d.weights.RawMatrix().Data, d.weightGrad.RawMatrix().Data),
		NewParameter("bias", 1, d.units, d.bias.RawVector().Data, d.biasGrad.RawVector().Data),
	}
	return nil
}

// InputShape returns the connected input shape.
func (d *Dense) InputShape() Shape { return d.input }

// OutputShape returns Flat(units).
func (d *Dense) OutputShape() Shape { return Flat(d.units) }

// Initialize draws the weights row-major from init's distribution and
// zeroes the bias.
func (d *Dense) Initialize(init Initialization, rng *rand.Rand) {
	d.mustBeConnected("Initialize")
	fanIn, fanOut := d.weights.Dims()
	fillUniform(d.weights.RawMatrix().Data, init.Bound(fanIn, fanOut), rng)
	d.bias.Zero()
}

// Forward computes x @ W + b for every row of the batch and caches x.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (d *Dense) Forward(input *mat.Dense) *mat.Dense {
	d.mustBeConnected("Forward")
	checkWidth("nn.Dense.Forward", input, d.input.Size())

	rows, _ := input.Dims()
	d.lastInput = input
	d.output = resize(d.output, rows, d.units)
	d.affine(input, d.output)
	return d.output
}

// Backward computes:
//   - dW = xᵀ @ δ
//   - db = Σ_rows δ
//   - returns δ @ Wᵀ
//
// Panics if called before Forward or with a batch of a different size.
func (d *Dense) Backward(outputGradient *mat.Dense) *mat.Dense {
	if d.lastInput == nil {
		panic("nn.Dense.Backward: called before Forward")
	}
	rows, _ := d.lastInput.Dims()
	if r, c := outputGradient.Dims(); r != rows || c != d.units {
		panic(fmt.Sprintf("nn.Dense.Backward: expected gradient %dx%d, got %dx%d", rows, d.units, r, c))
	}

	d.weightGrad.Mul(d.lastInput.T(), outputGradient)

	biasGrad := d.biasGrad.RawVector().Data
	clear(biasGrad)
	for r := 0; r < rows; r++ {
		floats.Add(biasGrad, outputGradient.RawRowView(r))
	}

	d.delta = resize(d.delta, rows, d.input.Size())
	d.delta.Mul(outputGradient, d.weights.T())
	return d.delta
}

// Predict computes x @ W + b into a fresh matrix.
func (d *Dense) Predict(input *mat.Dense) *mat.Dense {
	d.mustBeConnected("Predict")
	checkWidth("nn.Dense.Predict", input, d.input.Size())

	rows, _ := input.Dims()
	output := mat.NewDense(rows, d.units, nil)
	d.affine(input, output)
	return output
}

// affine writes x @ W + b into output one row at a time. Each row is summed
// in the same order whatever the batch size, so a row predicted alone and
// the same row inside a batch give bit-identical results.
func (d *Dense) affine(input, output *mat.Dense) {
	rows, _ := input.Dims()
	w := d.weights.RawMatrix()
	b := d.bias.RawVector().Data

	parallel.For(rows, func(r int) {
		x := input.RawRowView(r)
		y := output.RawRowView(r)
		clear(y)
		for k, xk := range x {
			floats.AddScaled(y, xk, w.Data[k*w.Stride:k*w.Stride+w.Cols])
		}
		floats.Add(y, b)
	}, d.cfg)
}

// Parameters returns [weights, bias].
func (d *Dense) Parameters() []*Parameter {
	return d.params
}

// UpdateParameters applies rule to the weights and the bias.
func (d *Dense) UpdateParameters(rule UpdateRule) {
	for _, p := range d.params {
		rule.Update(p)
	}
}

// Weights returns the weight matrix [in_features, out_features].
// The matrix is owned by the layer and must not be modified.
func (d *Dense) Weights() *mat.Dense {
	return d.weights
}

// Bias returns the bias vector [out_features].
// The vector is owned by the layer and must not be modified.
func (d *Dense) Bias() *mat.VecDense {
	return d.bias
}

// SetParameters copies weights and bias into the layer.
//
// Returns ErrShapeMismatch if the dimensions do not match the connected
// layer.
func (d *Dense) SetParameters(weights mat.Matrix, bias mat.Vector) error {
	d.mustBeConnected("SetParameters")

	wr, wc := weights.Dims()
	er, ec := d.weights.Dims()
	if wr != er || wc != ec {
		return fmt.Errorf("%w: weights %dx%d, expected %dx%d", ErrShapeMismatch, wr, wc, er, ec)
	}
	if bias.Len() != d.units {
		return fmt.Errorf("%w: bias length %d, expected %d", ErrShapeMismatch, bias.Len(), d.units)
	}

	d.weights.Copy(weights)
	d.bias.CopyVec(bias)
	return nil
}

// Clone returns a deep copy of the layer with its parameters.
func (d *Dense) Clone() Layer {
	c := &Dense{
		units:      d.units,
		activation: d.activation,
		declared:   d.declared,
		cfg:        d.cfg,
	}
	if d.weights != nil {
		// Connect cannot fail for a shape that was already accepted.
		_ = c.Connect(d.input)
		c.weights.Copy(d.weights)
		c.bias.CopyVec(d.bias)
	}
	return c
}

func (d *Dense) mustBeConnected(op string) {
	if d.weights == nil {
		panic("nn.Dense." + op + ": layer is not connected to a network")
	}
}
