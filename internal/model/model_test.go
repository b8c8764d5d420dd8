package model_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/model"
	"github.com/born-ml/learn/internal/nn"
	"github.com/born-ml/learn/internal/serialization"
)

const fixturePath = "testdata/classification_model.json"

// fixtureData regenerates the 500 observations and random targets the
// stored classifier is scored against.
func fixtureData() (*mat.Dense, []float64) {
	const (
		observations = 500
		features     = 5
		classes      = 5
	)
	random := newDotnetRandom(32)
	data := make([]float64, observations*features)
	for i := range data {
		data[i] = random.NextDouble()
	}
	targets := make([]float64, observations)
	for i := range targets {
		targets[i] = float64(random.Next(0, classes))
	}
	return mat.NewDense(observations, features, data), targets
}

func loadFixture(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.LoadFile(fixturePath)
	require.NoError(t, err)
	return m
}

func totalError(targets, predictions []float64) float64 {
	wrong := 0
	for i := range targets {
		if targets[i] != predictions[i] {
			wrong++
		}
	}
	return float64(wrong) / float64(len(targets))
}

func TestModel_Predict_Single(t *testing.T) {
	m := loadFixture(t)
	observations, targets := fixtureData()

	predictions := make([]float64, len(targets))
	for i := range predictions {
		p, err := m.Predict(observations.RawRowView(i))
		require.NoError(t, err)
		predictions[i] = p
	}

	assert.Equal(t, 0.77, totalError(targets, predictions))
}

func TestModel_Predict_Multiple(t *testing.T) {
	m := loadFixture(t)
	observations, targets := fixtureData()

	predictions, err := m.PredictBatch(observations)
	require.NoError(t, err)

	assert.Equal(t, 0.77, totalError(targets, predictions))
}

func TestModel_PredictProbability_Single(t *testing.T) {
	m := loadFixture(t)
	observations, targets := fixtureData()

	predictions := make([]float64, len(targets))
	for i := range predictions {
		p, err := m.PredictProbability(observations.RawRowView(i))
		require.NoError(t, err)
		predictions[i] = p.Prediction
	}

	assert.Equal(t, 0.77, totalError(targets, predictions))
}

func TestModel_PredictProbability_Multiple(t *testing.T) {
	m := loadFixture(t)
	observations, targets := fixtureData()

	probabilities, err := m.PredictProbabilityBatch(observations)
	require.NoError(t, err)

	predictions := make([]float64, len(probabilities))
	for i, p := range probabilities {
		predictions[i] = p.Prediction
	}
	assert.Equal(t, 0.77, totalError(targets, predictions))
}

func TestModel_Probabilities(t *testing.T) {
	m := loadFixture(t)
	observations, _ := fixtureData()

	p, err := m.PredictProbability(observations.RawRowView(0))
	require.NoError(t, err)

	require.Len(t, p.Probabilities, 5)
	var sum float64
	best := p.Probabilities[p.Prediction]
	for class, prob := range p.Probabilities {
		assert.GreaterOrEqual(t, class, 0.0)
		assert.Less(t, class, 5.0)
		assert.GreaterOrEqual(t, best, prob)
		sum += prob
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestModel_BatchMatchesSingle(t *testing.T) {
	m := loadFixture(t)
	observations, _ := fixtureData()

	batch, err := m.PredictProbabilityBatch(observations)
	require.NoError(t, err)

	for i := range batch {
		single, err := m.PredictProbability(observations.RawRowView(i))
		require.NoError(t, err)
		assert.Equal(t, single, batch[i], "row %d", i)
	}
}

func TestModel_FixtureLayout(t *testing.T) {
	m := loadFixture(t)

	assert.Equal(t, nn.Classification, m.Task())
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, m.Targets())
	assert.Equal(t,
		"input(1x1x5) -> dense(1x1x10) -> activation[relu](1x1x10) -> dense(1x1x5) -> svm(1x1x5)",
		m.Network().String())
}

// TestModel_SaveLoadRoundTrip checks that saving is idempotent: a loaded
// model saves to the same bytes it was loaded from. The fixture comes from
// a single-precision trainer, so retraining here cannot reproduce its text
// byte for byte; reproducible training output is covered by
// TestLearner_Deterministic in the learner package.
func TestModel_SaveLoadRoundTrip(t *testing.T) {
	m := loadFixture(t)

	var first bytes.Buffer
	require.NoError(t, m.Save(&first))

	loaded, err := model.Load(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, loaded.Save(&second))
	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), `"checksum"`)

	observations, _ := fixtureData()
	want, err := m.PredictBatch(observations)
	require.NoError(t, err)
	got, err := loaded.PredictBatch(observations)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestModel_WithMetadata(t *testing.T) {
	m := loadFixture(t)
	assert.Empty(t, m.Metadata())

	tagged := m.WithMetadata(map[string]string{"dataset": "blobs", "loss": "hinge"})
	assert.Empty(t, m.Metadata())
	assert.Equal(t, "blobs", tagged.Metadata()["dataset"])

	// Callers get copies.
	md := tagged.Metadata()
	md["dataset"] = "changed"
	assert.Equal(t, "blobs", tagged.Metadata()["dataset"])

	var buf bytes.Buffer
	require.NoError(t, tagged.Save(&buf))
	assert.Contains(t, buf.String(), `"dataset": "blobs"`)

	loaded, err := model.Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, tagged.Metadata(), loaded.Metadata())

	var again bytes.Buffer
	require.NoError(t, loaded.Save(&again))
	assert.Equal(t, buf.String(), again.String())

	// Metadata is descriptive only.
	observations, _ := fixtureData()
	want, err := m.PredictBatch(observations)
	require.NoError(t, err)
	got, err := loaded.PredictBatch(observations)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestModel_SaveLoadFile(t *testing.T) {
	m := loadFixture(t)
	path := filepath.Join(t.TempDir(), "model.json")

	require.NoError(t, m.SaveFile(path))
	loaded, err := model.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, m.Targets(), loaded.Targets())

	other := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, m.SaveTo(func() (io.WriteCloser, error) { return os.Create(other) }))
	fromOpen, err := model.LoadFrom(func() (io.ReadCloser, error) { return os.Open(other) })
	require.NoError(t, err)

	a, err := os.ReadFile(path)
	require.NoError(t, err)
	b, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, m.Network().String(), fromOpen.Network().String())
}

func TestModel_SaveToOpenError(t *testing.T) {
	m := loadFixture(t)
	boom := errors.New("boom")

	err := m.SaveTo(func() (io.WriteCloser, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, err = model.LoadFrom(func() (io.ReadCloser, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, m.SaveTo(nil), nn.ErrNullArgument)
	_, err = model.LoadFrom(nil)
	assert.ErrorIs(t, err, nn.ErrNullArgument)
	_, err = model.Load(nil)
	assert.ErrorIs(t, err, nn.ErrNullArgument)
}

func TestModel_PredictErrors(t *testing.T) {
	m := loadFixture(t)

	_, err := m.Predict(nil)
	assert.ErrorIs(t, err, nn.ErrNullArgument)

	_, err = m.Predict([]float64{1, 2, 3})
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)

	_, err = m.PredictBatch(mat.NewDense(2, 4, nil))
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)

	_, err = m.PredictBatch(nil)
	assert.ErrorIs(t, err, nn.ErrNullArgument)

	var typedNil *mat.Dense
	_, err = m.PredictBatch(typedNil)
	assert.ErrorIs(t, err, nn.ErrNullArgument)

	_, err = m.PredictProbabilityBatch(typedNil)
	assert.ErrorIs(t, err, nn.ErrNullArgument)

	_, err = m.PredictBatch(&mat.Dense{})
	assert.ErrorIs(t, err, nn.ErrNullArgument)

	_, err = m.PredictProbability([]float64{1})
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)

	_, err = m.PredictProbabilityBatch(mat.NewDense(1, 6, nil))
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)
}

func TestModel_ConcurrentPredict(t *testing.T) {
	m := loadFixture(t)
	observations, _ := fixtureData()

	want, err := m.PredictBatch(observations)
	require.NoError(t, err)

	got := make([][]float64, 8)
	var wg conc.WaitGroup
	for g := range got {
		wg.Go(func() {
			rows, _ := observations.Dims()
			out := make([]float64, rows)
			for i := range out {
				p, err := m.Predict(observations.RawRowView(i))
				if err != nil {
					panic(err)
				}
				out[i] = p
			}
			got[g] = out
		})
	}
	wg.Wait()

	for _, out := range got {
		assert.Equal(t, want, out)
	}
}

func regressionNetwork(t *testing.T) *nn.Network {
	t.Helper()
	dense := nn.NewDense(1, nn.Undefined)
	net, err := nn.NewNetworkOf(nn.NewInput(2), dense, nn.NewSquaredError(1))
	require.NoError(t, err)
	require.NoError(t, dense.SetParameters(
		mat.NewDense(2, 1, []float64{2, -1}),
		mat.NewVecDense(1, []float64{0.5}),
	))
	return net
}

func TestModel_Regression(t *testing.T) {
	m, err := model.New(regressionNetwork(t), []float64{3.5, 1.25, 3.5})
	require.NoError(t, err)

	assert.Equal(t, nn.Regression, m.Task())
	assert.Equal(t, []float64{1.25, 3.5}, m.Targets())

	p, err := m.Predict([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)

	_, err = m.PredictProbability([]float64{1, 2})
	assert.ErrorIs(t, err, nn.ErrNotClassifier)
	_, err = m.PredictProbabilityBatch(mat.NewDense(1, 2, nil))
	assert.ErrorIs(t, err, nn.ErrNotClassifier)

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	assert.Contains(t, buf.String(), `"task": "regression"`)

	loaded, err := model.Load(&buf)
	require.NoError(t, err)
	p, err = loaded.Predict([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)
}

func TestModel_IsIndependentOfSourceNetwork(t *testing.T) {
	net := regressionNetwork(t)
	m, err := model.New(net, []float64{0})
	require.NoError(t, err)

	dense := net.Layers()[1].(*nn.Dense)
	require.NoError(t, dense.SetParameters(mat.NewDense(2, 1, []float64{100, 100}), mat.NewVecDense(1, []float64{100})))
	assert.False(t, net.Frozen())

	p, err := m.Predict([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)

	copied := m.Network()
	assert.True(t, copied.Frozen())
	assert.ErrorIs(t, copied.AddLayer(nn.NewDense(1, nn.Undefined)), nn.ErrTopologyFrozen)
}

func TestNew_Errors(t *testing.T) {
	_, err := model.New(nil, nil)
	assert.ErrorIs(t, err, nn.ErrNullArgument)

	open, err := nn.NewNetworkOf(nn.NewInput(2), nn.NewDense(2, nn.Undefined))
	require.NoError(t, err)
	_, err = model.New(open, nil)
	assert.ErrorIs(t, err, nn.ErrInvalidLayerOrder)

	classifier, err := nn.NewNetworkOf(nn.NewInput(2), nn.NewDense(3, nn.Undefined), nn.NewSVM(3))
	require.NoError(t, err)
	for _, target := range []float64{3, -1, 0.5, math.NaN()} {
		_, err = model.New(classifier, []float64{0, target})
		assert.ErrorIs(t, err, nn.ErrInvalidTarget, "target %v", target)
	}
}

func TestLoad_Rejects(t *testing.T) {
	fixture, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	text := string(fixture)

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "not json",
			doc:     "<xml/>",
			wantErr: serialization.ErrFormat,
		},
		{
			name:    "foreign format",
			doc:     strings.Replace(text, `"born-learn/neural-net"`, `"something-else"`, 1),
			wantErr: serialization.ErrFormat,
		},
		{
			name:    "newer version",
			doc:     strings.Replace(text, `"version": 1`, `"version": 2`, 1),
			wantErr: serialization.ErrVersionMismatch,
		},
		{
			name:    "unknown layer type",
			doc:     strings.Replace(text, `"type": "svm"`, `"type": "maxout"`, 1),
			wantErr: serialization.ErrFormat,
		},
		{
			name:    "unknown activation",
			doc:     strings.Replace(text, `"activation": "relu"`, `"activation": "swish"`, 1),
			wantErr: serialization.ErrFormat,
		},
		{
			name:    "weight rows disagree with previous layer",
			doc:     strings.Replace(text, `"rows": 5`, `"rows": 4`, 1),
			wantErr: serialization.ErrFormat,
		},
		{
			name:    "bias length",
			doc:     strings.Replace(text, `"length": 10`, `"length": 9`, 1),
			wantErr: serialization.ErrFormat,
		},
		{
			name: "dense shape not flat",
			doc: strings.Replace(text,
				"\"type\": \"dense\",\n      \"shape\": [\n        1,\n        1,\n        10\n      ]",
				"\"type\": \"dense\",\n      \"shape\": [\n        2,\n        5,\n        1\n      ]", 1),
			wantErr: serialization.ErrFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEqual(t, text, tt.doc)
			m, err := model.Load(strings.NewReader(tt.doc))
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_ChecksumMismatch(t *testing.T) {
	m := loadFixture(t)
	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	// Change one weight without touching the stored digest.
	tampered := strings.Replace(buf.String(), "0.2010992020368576", "0.2010992020368577", 1)
	require.NotEqual(t, buf.String(), tampered)
	_, err := model.Load(strings.NewReader(tampered))
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
	assert.ErrorIs(t, err, serialization.ErrFormat)

	var formatErr *serialization.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "checksum", formatErr.Type)
}
