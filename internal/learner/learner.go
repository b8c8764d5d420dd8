// Package learner trains networks with mini-batch gradient descent and
// turns them into immutable models.
//
// A training run is:
//
//	l, err := learner.New(network, nil, learner.DefaultConfig())
//	m, err := l.Learn(ctx, observations, targets)
//
// Runs are deterministic: one *rand.Rand seeded from Config.Seed draws the
// initial weights and then the per-epoch row order, and every kernel sums
// in a fixed order.
package learner

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/containers"
	"github.com/born-ml/learn/internal/loss"
	"github.com/born-ml/learn/internal/model"
	"github.com/born-ml/learn/internal/nn"
	"github.com/born-ml/learn/internal/optim"
)

// State is the lifecycle stage of the last training run.
type State int

const (
	// Initialized means no run has started.
	Initialized State = iota
	// Training means a run is in progress.
	Training
	// Converged means the run stopped early, on a loss plateau or because
	// the observer asked for it.
	Converged
	// EpochLimitReached means the run completed every configured epoch.
	EpochLimitReached
	// Cancelled means the context was done at an epoch boundary.
	Cancelled
	// Failed means the run stopped on an error such as a non-finite loss.
	Failed
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Training:
		return "training"
	case Converged:
		return "converged"
	case EpochLimitReached:
		return "epoch_limit_reached"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Learner fits a network template to data.
//
// The template is frozen when the first run starts. Every run trains a
// fresh deep copy of it, so repeated runs with the same config and data
// produce identical models. A Learner is not safe for concurrent runs.
type Learner struct {
	network *nn.Network
	loss    loss.Loss
	cfg     Config
	init    nn.Initialization

	state State
	stats []EpochStats
}

// New creates a learner for network.
//
// Parameters:
//   - network: Template network ending in an output layer
//   - lossFn: Loss to minimize, nil selects the loss paired with the output layer
//   - cfg: Training configuration; zero numeric fields take their defaults
//
// Returns ErrNullArgument for a nil network, ErrInvalidLayerOrder if it
// does not end in an output layer, and ErrInvalidConfig for bad settings
// or a loss that does not pair with the output layer
// (loss.ErrIncompatibleLoss).
func New(network *nn.Network, lossFn loss.Loss, cfg Config) (*Learner, error) {
	if network == nil {
		return nil, fmt.Errorf("%w: network", nn.ErrNullArgument)
	}
	output, ok := network.OutputLayer()
	if !ok {
		return nil, fmt.Errorf("%w: network does not end in an output layer", nn.ErrInvalidLayerOrder)
	}
	if lossFn == nil {
		var err error
		if lossFn, err = loss.ForOutput(output.Kind()); err != nil {
			return nil, err
		}
	} else if err := loss.CheckPairing(lossFn, output.Kind()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	initialization, _ := nn.ParseInitialization(cfg.Initialization)

	return &Learner{
		network: network,
		loss:    lossFn,
		cfg:     cfg,
		init:    initialization,
		state:   Initialized,
	}, nil
}

// State returns the state of the last run.
func (l *Learner) State() State {
	return l.state
}

// Stats returns the per-epoch statistics of the last run.
func (l *Learner) Stats() []EpochStats {
	return append([]EpochStats(nil), l.stats...)
}

// Config returns the effective configuration.
func (l *Learner) Config() Config {
	return l.cfg
}

// Learn trains on observations (one row per sample) and targets and
// returns the trained model.
//
// Errors:
//   - ErrNullArgument for nil inputs
//   - ErrDimensionMismatch if the row count differs from len(targets) or
//     the column count from the network's input size
//   - ErrInvalidTarget for classification targets outside [0, classes),
//     or for regression on a network with more than one output
//   - ErrNumericInstability if the loss stops being finite
//   - the context error if ctx is done at an epoch boundary
//
// No model is returned on error.
func (l *Learner) Learn(ctx context.Context, observations mat.Matrix, targets []float64) (*model.Model, error) {
	x, y, err := prepare(l.network, observations, targets)
	if err != nil {
		return nil, err
	}
	return l.run(ctx, x, y, targets, nil, nil)
}

// LearnSet trains on every row of set.
func (l *Learner) LearnSet(ctx context.Context, set *containers.ObservationTargetSet) (*model.Model, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: set", nn.ErrNullArgument)
	}
	return l.Learn(ctx, set.Observations(), set.Targets())
}

// LearnSplit trains on the training set of split and monitors the loss on
// its test set after every epoch. Early stopping watches the test loss,
// and the returned model carries the parameters of the epoch with the best
// test loss.
func (l *Learner) LearnSplit(ctx context.Context, split *containers.TrainingTestSetSplit) (*model.Model, error) {
	if split == nil {
		return nil, fmt.Errorf("%w: split", nn.ErrNullArgument)
	}
	train, test := split.TrainingSet(), split.TestSet()
	x, y, err := prepare(l.network, train.Observations(), train.Targets())
	if err != nil {
		return nil, fmt.Errorf("training set: %w", err)
	}
	tx, ty, err := prepare(l.network, test.Observations(), test.Targets())
	if err != nil {
		return nil, fmt.Errorf("test set: %w", err)
	}
	return l.run(ctx, x, y, train.Targets(), tx, ty)
}

// run executes one training run. tx and ty are nil when no test set is
// monitored.
func (l *Learner) run(ctx context.Context, x, y *mat.Dense, targets []float64, tx, ty *mat.Dense) (*model.Model, error) {
	l.network.Freeze()
	l.state = Training
	l.stats = l.stats[:0]

	net := l.network.Clone()
	rng := rand.New(rand.NewSource(l.cfg.Seed))
	net.Initialize(l.init, rng)

	optimizer, err := optim.New(l.cfg.Optimizer)
	if err != nil {
		l.state = Failed
		return nil, err
	}
	epochAware, _ := optimizer.(optim.EpochAware)

	rows, _ := x.Dims()
	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}
	batches := newBatcher(x, y, l.cfg.BatchSize)

	var (
		best      = math.Inf(1)
		bestNet   *nn.Network
		bestEpoch int
		stale     int
		stopped   bool
	)

	for epoch := 0; epoch < l.cfg.Epochs && !stopped; epoch++ {
		if err := ctx.Err(); err != nil {
			l.state = Cancelled
			return nil, fmt.Errorf("learner: cancelled before epoch %d: %w", epoch+1, err)
		}
		if epochAware != nil {
			epochAware.SetEpoch(epoch)
		}
		if l.cfg.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		var total float64
		for b := 0; b < batches.count(); b++ {
			bx, by := batches.batch(b, order)
			out := net.Forward(bx)
			n, _ := bx.Dims()
			total += l.loss.Loss(out, by) * float64(n)
			net.Backward(l.loss.Gradient(out, by))
			net.UpdateParameters(optimizer)
		}

		stats := EpochStats{
			Epoch:        epoch + 1,
			Loss:         total / float64(rows),
			LearningRate: optimizer.GetLR(),
		}
		if !isFinite(stats.Loss) {
			l.state = Failed
			return nil, fmt.Errorf("%w: epoch %d", nn.ErrNumericInstability, stats.Epoch)
		}

		monitored := stats.Loss
		if tx != nil {
			stats.TestLoss = l.loss.Loss(net.Predict(tx), ty)
			stats.HasTestLoss = true
			if !isFinite(stats.TestLoss) {
				l.state = Failed
				return nil, fmt.Errorf("%w: test loss at epoch %d", nn.ErrNumericInstability, stats.Epoch)
			}
			monitored = stats.TestLoss
		}
		l.stats = append(l.stats, stats)
		l.logEpoch(stats)

		if monitored < best-l.cfg.Tolerance {
			best = monitored
			stale = 0
			if tx != nil {
				bestNet = net.Clone()
				bestEpoch = stats.Epoch
			}
		} else {
			stale++
		}

		if l.cfg.Observer != nil && l.cfg.Observer(stats) {
			stopped = true
		}
		if l.cfg.Patience > 0 && stale >= l.cfg.Patience {
			stopped = true
		}
	}

	epoch := len(l.stats)
	if bestNet != nil {
		net, epoch = bestNet, bestEpoch
	}
	m, err := model.New(net, targets)
	if err != nil {
		l.state = Failed
		return nil, err
	}
	m = m.WithMetadata(map[string]string{
		"loss":           l.loss.Name(),
		"optimizer":      l.cfg.Optimizer.EffectiveKind(),
		"initialization": l.init.String(),
		"seed":           strconv.FormatInt(l.cfg.Seed, 10),
		"epoch":          strconv.Itoa(epoch),
	})

	l.state = EpochLimitReached
	if stopped {
		l.state = Converged
	}
	if l.cfg.Logger != nil {
		l.cfg.Logger.Printf("training finished state=%s epochs=%d", l.state, len(l.stats))
	}
	return m, nil
}

func (l *Learner) logEpoch(s EpochStats) {
	if l.cfg.Logger == nil || l.cfg.LogEvery <= 0 || s.Epoch%l.cfg.LogEvery != 0 {
		return
	}
	if s.HasTestLoss {
		l.cfg.Logger.Printf("epoch=%d loss=%.6f test_loss=%.6f lr=%g", s.Epoch, s.Loss, s.TestLoss, s.LearningRate)
		return
	}
	l.cfg.Logger.Printf("epoch=%d loss=%.6f lr=%g", s.Epoch, s.Loss, s.LearningRate)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
