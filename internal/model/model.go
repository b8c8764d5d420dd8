// Package model holds trained networks and exposes prediction and
// persistence.
//
// A Model owns a private deep copy of the network it was built from, so it
// never changes after construction and is safe for concurrent use.
package model

import (
	"fmt"
	"maps"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/nn"
)

// ProbabilityPrediction is a class prediction with the probability of
// every class.
type ProbabilityPrediction struct {
	// Prediction is the most probable class.
	Prediction float64
	// Probabilities maps every output position to its probability. The
	// values sum to one.
	Probabilities map[float64]float64
}

// Model is an immutable trained network plus the target values seen
// during training.
type Model struct {
	network  *nn.Network
	output   nn.OutputLayer
	targets  []float64
	metadata map[string]string
}

// New builds a model over a deep copy of network.
//
// Parameters:
//   - network: Trained network ending in an output layer
//   - targets: Target values seen during training, in any order
//
// The targets are stored distinct and sorted ascending. Classification
// targets must be class positions in [0, classes) and ErrInvalidTarget is
// returned otherwise.
func New(network *nn.Network, targets []float64) (*Model, error) {
	if network == nil {
		return nil, fmt.Errorf("%w: network", nn.ErrNullArgument)
	}
	if _, ok := network.OutputLayer(); !ok {
		return nil, fmt.Errorf("%w: network does not end in an output layer", nn.ErrInvalidLayerOrder)
	}

	clone := network.Clone()
	clone.Freeze()
	output, _ := clone.OutputLayer()

	if output.Task() == nn.Classification {
		classes := output.OutputShape().Size()
		for _, t := range targets {
			if t != math.Trunc(t) || t < 0 || t >= float64(classes) {
				return nil, fmt.Errorf("%w: %v is not a class in [0, %d)", nn.ErrInvalidTarget, t, classes)
			}
		}
	}

	return &Model{
		network: clone,
		output:  output,
		targets: distinctSorted(targets),
	}, nil
}

// Task returns whether the model classifies or regresses.
func (m *Model) Task() nn.Task {
	return m.output.Task()
}

// Targets returns a copy of the distinct sorted target values seen during
// training. Predictions are output positions in [0, classes) and are not
// restricted to this list: a class absent from training can still be
// predicted, and ProbabilityPrediction covers every output position.
func (m *Model) Targets() []float64 {
	return append([]float64(nil), m.targets...)
}

// Metadata returns a copy of the descriptive key/value pairs saved with the
// model, such as the loss and optimizer it was trained with. Metadata does
// not affect predictions and is not covered by the checksum.
func (m *Model) Metadata() map[string]string {
	return maps.Clone(m.metadata)
}

// WithMetadata returns a model sharing m's network and targets with its
// metadata replaced by a copy of metadata.
func (m *Model) WithMetadata(metadata map[string]string) *Model {
	c := *m
	c.metadata = maps.Clone(metadata)
	return &c
}

// Network returns a deep copy of the trained network.
func (m *Model) Network() *nn.Network {
	return m.network.Clone()
}

// Predict returns the prediction for one observation: the class value for
// classifiers and the first output for regressors.
//
// Returns ErrNullArgument for a nil observation and ErrDimensionMismatch
// if its length differs from the network's input size.
func (m *Model) Predict(observation []float64) (float64, error) {
	out, err := m.forwardRow(observation)
	if err != nil {
		return 0, err
	}
	return m.decide(out.RawRowView(0)), nil
}

// PredictBatch returns one prediction per row of observations.
func (m *Model) PredictBatch(observations mat.Matrix) ([]float64, error) {
	out, err := m.forwardBatch(observations)
	if err != nil {
		return nil, err
	}
	rows, _ := out.Dims()
	predictions := make([]float64, rows)
	for r := range predictions {
		predictions[r] = m.decide(out.RawRowView(r))
	}
	return predictions, nil
}

// PredictProbability returns the predicted class and the class
// probabilities for one observation.
//
// Returns ErrNotClassifier for regression models.
func (m *Model) PredictProbability(observation []float64) (ProbabilityPrediction, error) {
	if m.Task() != nn.Classification {
		return ProbabilityPrediction{}, nn.ErrNotClassifier
	}
	out, err := m.forwardRow(observation)
	if err != nil {
		return ProbabilityPrediction{}, err
	}
	return m.probabilities(out.RawRowView(0)), nil
}

// PredictProbabilityBatch returns one ProbabilityPrediction per row.
func (m *Model) PredictProbabilityBatch(observations mat.Matrix) ([]ProbabilityPrediction, error) {
	if m.Task() != nn.Classification {
		return nil, nn.ErrNotClassifier
	}
	out, err := m.forwardBatch(observations)
	if err != nil {
		return nil, err
	}
	rows, _ := out.Dims()
	predictions := make([]ProbabilityPrediction, rows)
	for r := range predictions {
		predictions[r] = m.probabilities(out.RawRowView(r))
	}
	return predictions, nil
}

func (m *Model) forwardRow(observation []float64) (*mat.Dense, error) {
	if observation == nil {
		return nil, fmt.Errorf("%w: observation", nn.ErrNullArgument)
	}
	features := m.network.InputShape().Size()
	if len(observation) != features {
		return nil, fmt.Errorf("%w: observation has %d features, model expects %d",
			nn.ErrDimensionMismatch, len(observation), features)
	}
	row := mat.NewDense(1, features, append([]float64(nil), observation...))
	return m.network.Predict(row), nil
}

func (m *Model) forwardBatch(observations mat.Matrix) (*mat.Dense, error) {
	if err := nn.CheckMatrix(observations, "observations"); err != nil {
		return nil, err
	}
	features := m.network.InputShape().Size()
	if _, c := observations.Dims(); c != features {
		return nil, fmt.Errorf("%w: observations have %d features, model expects %d",
			nn.ErrDimensionMismatch, c, features)
	}
	return m.network.Predict(mat.DenseCopyOf(observations)), nil
}

// decide turns one output row into a prediction. Classes are output
// positions; ties go to the first maximal position.
func (m *Model) decide(out []float64) float64 {
	if m.Task() == nn.Regression {
		return out[0]
	}
	return float64(argmax(out))
}

// probabilities normalizes one output row. Softmax outputs are already
// probabilities; other classifiers' scores go through a stable softmax.
func (m *Model) probabilities(out []float64) ProbabilityPrediction {
	probs := out
	if m.output.Kind() != nn.KindSoftMax {
		probs = softmax(out)
	}
	p := ProbabilityPrediction{
		Prediction:    float64(argmax(out)),
		Probabilities: make(map[float64]float64, len(probs)),
	}
	for k, v := range probs {
		p.Probabilities[float64(k)] = v
	}
	return p
}

func argmax(row []float64) int {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return best
}

func softmax(scores []float64) []float64 {
	maxVal := math.Inf(-1)
	for _, v := range scores {
		maxVal = math.Max(maxVal, v)
	}
	out := make([]float64, len(scores))
	var sum float64
	for i, v := range scores {
		out[i] = math.Exp(v - maxVal)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func distinctSorted(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}
