package nn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/nn"
)

func fixtureNetwork(t *testing.T) *nn.Network {
	t.Helper()
	net, err := nn.NewNetworkOf(
		nn.NewInput(5),
		nn.NewDense(10, nn.ReLU),
		nn.NewDense(5, nn.Undefined),
		nn.NewSVM(5),
	)
	require.NoError(t, err)
	return net
}

func TestNetwork_AddLayer(t *testing.T) {
	net := fixtureNetwork(t)

	// Dense with ReLU expands into dense + activation.
	require.Equal(t, 5, net.Len())
	kinds := make([]nn.Kind, 0, net.Len())
	for _, l := range net.Layers() {
		kinds = append(kinds, l.Kind())
	}
	assert.Equal(t, []nn.Kind{nn.KindInput, nn.KindDense, nn.KindActivation, nn.KindDense, nn.KindSVM}, kinds)

	assert.Equal(t, nn.Flat(5), net.InputShape())
	assert.Equal(t, nn.Flat(5), net.OutputShape())

	out, ok := net.OutputLayer()
	require.True(t, ok)
	assert.Equal(t, nn.Classification, out.Task())

	assert.Equal(t, "input(1x1x5) -> dense(1x1x10) -> activation[relu](1x1x10) -> dense(1x1x5) -> svm(1x1x5)", net.String())
}

func TestNetwork_AddLayerErrors(t *testing.T) {
	tests := []struct {
		name   string
		layers []nn.Layer
		want   error
	}{
		{
			name:   "first layer not input",
			layers: []nn.Layer{nn.NewDense(3, nn.Undefined)},
			want:   nn.ErrInvalidLayerOrder,
		},
		{
			name:   "second input",
			layers: []nn.Layer{nn.NewInput(3), nn.NewInput(3)},
			want:   nn.ErrInvalidLayerOrder,
		},
		{
			name:   "layer after output",
			layers: []nn.Layer{nn.NewInput(3), nn.NewSVM(3), nn.NewDense(2, nn.Undefined)},
			want:   nn.ErrInvalidLayerOrder,
		},
		{
			name:   "output width differs",
			layers: []nn.Layer{nn.NewInput(4), nn.NewDense(3, nn.Undefined), nn.NewSoftMax(2)},
			want:   nn.ErrShapeMismatch,
		},
		{
			name:   "declared dense input differs",
			layers: []nn.Layer{nn.NewInput(4), nn.NewDense(3, nn.Undefined, nn.WithDeclaredInput(nn.Flat(5)))},
			want:   nn.ErrShapeMismatch,
		},
		{
			name:   "non-positive input",
			layers: []nn.Layer{nn.NewInput(0)},
			want:   nn.ErrShapeMismatch,
		},
		{
			name:   "zero units",
			layers: []nn.Layer{nn.NewInput(2), nn.NewDense(0, nn.Undefined)},
			want:   nn.ErrShapeMismatch,
		},
		{
			name:   "nil layer",
			layers: []nn.Layer{nn.NewInput(2), nil},
			want:   nn.ErrNullArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := nn.NewNetwork()
			var err error
			for _, l := range tt.layers {
				if err = net.AddLayer(l); err != nil {
					break
				}
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// TestNetwork_ShapeInvariant checks that AddLayer accepts a declared input
// shape exactly when it equals the previous output shape.
func TestNetwork_ShapeInvariant(t *testing.T) {
	for prev := 1; prev <= 4; prev++ {
		for declared := 1; declared <= 4; declared++ {
			net := nn.NewNetwork()
			require.NoError(t, net.AddLayer(nn.NewInput(prev)))
			err := net.AddLayer(nn.NewDense(2, nn.Undefined, nn.WithDeclaredInput(nn.Flat(declared))))
			if prev == declared {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, nn.ErrShapeMismatch)
			}
		}
	}
}

func TestNetwork_Frozen(t *testing.T) {
	net := nn.NewNetwork()
	require.NoError(t, net.AddLayer(nn.NewInput(2)))
	net.Freeze()
	assert.True(t, net.Frozen())
	assert.ErrorIs(t, net.AddLayer(nn.NewDense(2, nn.Undefined)), nn.ErrTopologyFrozen)
}

func TestNetwork_ForwardBackward(t *testing.T) {
	net := fixtureNetwork(t)
	rng := rand.New(rand.NewSource(1))
	net.Initialize(nn.GlorotUniform, rng)

	x := randomMatrix(rng, 6, 5)
	out := net.Forward(x)
	assert.True(t, mat.Equal(net.Predict(x), out))

	r, c := out.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 5, c)

	net.Backward(mat.NewDense(6, 5, onesSlice(30)))
	for _, p := range net.Parameters() {
		nonZero := false
		for _, g := range p.Grad() {
			if g != 0 {
				nonZero = true
			}
			assert.False(t, math.IsNaN(g))
		}
		assert.True(t, nonZero, "parameter %s has an all-zero gradient", p.Name())
	}
}

// TestNetwork_GradientCheck checks end-to-end gradients through dense,
// activation and output layers.
func TestNetwork_GradientCheck(t *testing.T) {
	net, err := nn.NewNetworkOf(
		nn.NewInput(3),
		nn.NewDense(4, nn.Tanh),
		nn.NewDense(2, nn.Sigmoid),
		nn.NewSquaredError(2),
	)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(21))
	net.Initialize(nn.GlorotUniform, rng)
	x := randomMatrix(rng, 4, 3)
	g := randomMatrix(rng, 4, 2)

	net.Forward(x)
	net.Backward(g)

	const eps = 1e-6
	for _, p := range net.Parameters() {
		analytic := append([]float64(nil), p.Grad()...)
		for i := range p.Value() {
			orig := p.Value()[i]
			p.Value()[i] = orig + eps
			plus := mat.Sum(elementMul(net.Predict(x), g))
			p.Value()[i] = orig - eps
			minus := mat.Sum(elementMul(net.Predict(x), g))
			p.Value()[i] = orig
			assert.InDelta(t, (plus-minus)/(2*eps), analytic[i], 1e-6, "%s[%d]", p.Name(), i)
		}
	}
}

func TestNetwork_CloneIsIndependent(t *testing.T) {
	net := fixtureNetwork(t)
	net.Initialize(nn.GlorotUniform, rand.New(rand.NewSource(2)))

	clone := net.Clone()
	x := randomMatrix(rand.New(rand.NewSource(3)), 4, 5)
	assert.True(t, mat.Equal(net.Predict(x), clone.Predict(x)))

	net.Initialize(nn.GlorotUniform, rand.New(rand.NewSource(4)))
	assert.False(t, mat.Equal(net.Predict(x), clone.Predict(x)))
	assert.Equal(t, net.String(), clone.String())
}

func TestNetwork_EmptyPanics(t *testing.T) {
	net := nn.NewNetwork()
	assert.Panics(t, func() { net.Forward(mat.NewDense(1, 1, nil)) })
	assert.Equal(t, nn.Shape{}, net.InputShape())
	_, ok := net.OutputLayer()
	assert.False(t, ok)
}

func TestSoftMax_Forward(t *testing.T) {
	layer := nn.NewSoftMax(3)
	require.NoError(t, layer.Connect(nn.Flat(3)))

	out := layer.Forward(mat.NewDense(2, 3, []float64{
		1, 2, 3,
		1000, 1000, 1000,
	}))

	for r := 0; r < 2; r++ {
		row := out.RawRowView(r)
		sum := 0.0
		for _, v := range row {
			assert.False(t, math.IsNaN(v))
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
	}
	assert.InDelta(t, 1.0/3, out.At(1, 0), 1e-12)
	assert.Greater(t, out.At(0, 2), out.At(0, 1))
}

func TestNewOutput(t *testing.T) {
	for _, kind := range []nn.Kind{nn.KindSVM, nn.KindSoftMax, nn.KindSquaredError} {
		out, err := nn.NewOutput(kind, 3)
		require.NoError(t, err)
		assert.Equal(t, kind, out.Kind())
	}
	_, err := nn.NewOutput(nn.KindDense, 3)
	assert.Error(t, err)
}

func TestShape(t *testing.T) {
	s := nn.Shape{Width: 2, Height: 3, Depth: 4}
	assert.Equal(t, 24, s.Size())
	assert.True(t, s.Valid())
	assert.Equal(t, s, nn.ShapeFromTriple(s.Triple()))
	assert.Equal(t, "2x3x4", s.String())
	assert.True(t, nn.Shape{}.IsZero())
}
