// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package learner_test

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/containers"
	"github.com/born-ml/learn/learner"
	"github.com/born-ml/learn/model"
	"github.com/born-ml/learn/nn"
	"github.com/born-ml/learn/optim"
)

// TestPublicAPI trains, saves and reloads a classifier through the public
// packages only.
func TestPublicAPI(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 120
	x := mat.NewDense(n, 3, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		class := i % 3
		for j := 0; j < 3; j++ {
			v := rng.NormFloat64() * 0.3
			if j == class {
				v += 3
			}
			x.Set(i, j, v)
		}
		y[i] = float64(class)
	}

	set, err := containers.NewObservationTargetSet(x, y)
	require.NoError(t, err)
	split, err := containers.RandomSplit(set, 0.75, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	net := nn.NewNetwork()
	require.NoError(t, net.AddLayer(nn.NewInput(3)))
	require.NoError(t, net.AddLayer(nn.NewDense(6, nn.ReLU)))
	require.NoError(t, net.AddLayer(nn.NewDense(3, nn.Undefined)))
	require.NoError(t, net.AddLayer(nn.NewSVM(3)))

	cfg := learner.DefaultConfig()
	cfg.Epochs = 60
	cfg.BatchSize = 16
	cfg.Optimizer = optim.Config{Kind: optim.KindAdam, LR: 0.01}

	l, err := learner.New(net, nil, cfg)
	require.NoError(t, err)
	m, err := l.LearnSplit(context.Background(), split)
	require.NoError(t, err)
	assert.Contains(t, []learner.State{learner.EpochLimitReached, learner.Converged}, l.State())

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	loaded, err := model.Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	test := split.TestSet()
	predictions, err := loaded.PredictBatch(test.Observations())
	require.NoError(t, err)
	correct := 0
	for i, p := range predictions {
		if p == test.Targets()[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, float64(correct)/float64(len(predictions)), 0.9)

	_, err = loaded.Predict([]float64{1})
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)

	_, err = model.Load(bytes.NewReader([]byte(`{"format":"other"}`)))
	var formatErr *model.FormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.ErrorIs(t, err, model.ErrFormat)
}
