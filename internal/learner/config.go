package learner

import (
	"errors"
	"fmt"
	"io"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/learn/internal/nn"
	"github.com/born-ml/learn/internal/optim"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid learner config")

// Default hyperparameters.
const (
	DefaultEpochs    = 100
	DefaultBatchSize = 128
	DefaultSeed      = 42
	DefaultLogEvery  = 10
)

// EpochStats summarizes one finished epoch.
type EpochStats struct {
	Epoch        int     // 1-based epoch number
	Loss         float64 // Mean training loss over the epoch
	TestLoss     float64 // Mean loss on the held-out set, if HasTestLoss
	HasTestLoss  bool
	LearningRate float64 // Learning rate used during the epoch
}

// Config captures the knobs of a training run.
//
// Start from DefaultConfig: a zero Config disables shuffling. Zero numeric
// fields are replaced by their defaults when the learner is built.
type Config struct {
	Epochs    int   `yaml:"epochs"`
	BatchSize int   `yaml:"batch_size"`
	Seed      int64 `yaml:"seed"` // seeds weight init and shuffling; 0 selects DefaultSeed
	Shuffle   bool  `yaml:"shuffle"`

	// Initialization names the weight distribution: "glorot_uniform"
	// (default) or "he_uniform".
	Initialization string `yaml:"initialization"`

	Optimizer optim.Config `yaml:"optimizer"`

	// Training stops early once the monitored loss has not improved by
	// more than Tolerance for Patience consecutive epochs. Patience 0
	// disables early stopping.
	Tolerance float64 `yaml:"tolerance"`
	Patience  int     `yaml:"patience"`

	// Logger receives a progress line every LogEvery epochs. Nothing is
	// logged when it is nil.
	Logger   *log.Logger `yaml:"-"`
	LogEvery int         `yaml:"log_every"`

	// Observer is called after every epoch. Returning true stops training
	// as converged.
	Observer func(EpochStats) bool `yaml:"-"`
}

// DefaultConfig returns the default training configuration: 100 epochs of
// shuffled mini-batches of 128 with Adam at lr 0.001.
func DefaultConfig() Config {
	return Config{
		Epochs:    DefaultEpochs,
		BatchSize: DefaultBatchSize,
		Seed:      DefaultSeed,
		Shuffle:   true,
		Optimizer: optim.Config{Kind: optim.KindAdam, LR: 0.001},
		LogEvery:  DefaultLogEvery,
	}
}

// withDefaults fills zero numeric fields.
func (c Config) withDefaults() Config {
	if c.Epochs == 0 {
		c.Epochs = DefaultEpochs
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.LogEvery == 0 {
		c.LogEvery = DefaultLogEvery
	}
	return c
}

// Validate verifies the config is runnable.
func (c Config) Validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be > 0 (got %d)", ErrInvalidConfig, c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be > 0 (got %d)", ErrInvalidConfig, c.BatchSize)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be >= 0 (got %g)", ErrInvalidConfig, c.Tolerance)
	}
	if c.Patience < 0 {
		return fmt.Errorf("%w: patience must be >= 0 (got %d)", ErrInvalidConfig, c.Patience)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("%w: log_every must be >= 0 (got %d)", ErrInvalidConfig, c.LogEvery)
	}
	if _, err := nn.ParseInitialization(c.Initialization); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// DecodeConfig reads a YAML training config from r on top of
// DefaultConfig and validates it. Unknown keys are rejected.
//
// Example document:
//
//	epochs: 50
//	batch_size: 32
//	seed: 7
//	optimizer:
//	  kind: sgd
//	  lr: 0.05
//	  momentum: 0.9
//	  schedule:
//	    kind: step
//	    every: 10
//	    factor: 0.5
//	patience: 5
//	tolerance: 0.0001
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if r == nil {
		return cfg, fmt.Errorf("%w: reader", nn.ErrNullArgument)
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
