package optim

import (
	"errors"
	"fmt"
	"strings"
)

// Optimizer kinds accepted by Config.Kind.
const (
	KindSGD  = "sgd"
	KindAdam = "adam"
)

// Schedule kinds accepted by ScheduleConfig.Kind.
const (
	ScheduleConstant    = "constant"
	ScheduleStep        = "step"
	ScheduleExponential = "exponential"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid optimizer config")

// Config selects and parameterizes an optimizer declaratively, e.g. from
// a YAML training config. Zero values fall back to the optimizer defaults.
type Config struct {
	Kind        string         `yaml:"kind"` // "sgd" or "adam" (default: "adam")
	LR          float64        `yaml:"lr"`
	Momentum    float64        `yaml:"momentum"`     // SGD only
	Nesterov    bool           `yaml:"nesterov"`     // SGD only
	Beta1       float64        `yaml:"beta1"`        // Adam only
	Beta2       float64        `yaml:"beta2"`        // Adam only
	Eps         float64        `yaml:"eps"`          // Adam only
	WeightDecay float64        `yaml:"weight_decay"` // L2 penalty
	Schedule    ScheduleConfig `yaml:"schedule"`
}

// ScheduleConfig selects a learning rate schedule.
type ScheduleConfig struct {
	Kind   string  `yaml:"kind"`   // "constant", "step" or "exponential"
	Every  int     `yaml:"every"`  // step
	Factor float64 `yaml:"factor"` // step
	Rate   float64 `yaml:"rate"`   // exponential
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.kind() {
	case KindSGD, KindAdam:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, c.Kind)
	}
	if c.LR < 0 {
		return fmt.Errorf("%w: lr must be non-negative, got %g", ErrInvalidConfig, c.LR)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return fmt.Errorf("%w: momentum must be in [0, 1), got %g", ErrInvalidConfig, c.Momentum)
	}
	if c.Beta1 < 0 || c.Beta1 >= 1 || c.Beta2 < 0 || c.Beta2 >= 1 {
		return fmt.Errorf("%w: betas must be in [0, 1), got %g, %g", ErrInvalidConfig, c.Beta1, c.Beta2)
	}
	if c.Eps < 0 || c.WeightDecay < 0 {
		return fmt.Errorf("%w: eps and weight_decay must be non-negative", ErrInvalidConfig)
	}
	return c.Schedule.validate()
}

// EffectiveKind returns the kind New builds: Kind normalized, "adam" when
// empty.
func (c Config) EffectiveKind() string {
	return c.kind()
}

func (c Config) kind() string {
	k := strings.ToLower(strings.TrimSpace(c.Kind))
	if k == "" {
		return KindAdam
	}
	return k
}

func (s ScheduleConfig) validate() error {
	switch s.kind() {
	case ScheduleConstant:
	case ScheduleStep:
		if s.Every <= 0 || s.Factor <= 0 {
			return fmt.Errorf("%w: step schedule needs every > 0 and factor > 0", ErrInvalidConfig)
		}
	case ScheduleExponential:
		if s.Rate < 0 {
			return fmt.Errorf("%w: exponential schedule needs rate >= 0", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown schedule %q", ErrInvalidConfig, s.Kind)
	}
	return nil
}

func (s ScheduleConfig) kind() string {
	k := strings.ToLower(strings.TrimSpace(s.Kind))
	if k == "" {
		return ScheduleConstant
	}
	return k
}

// Build returns the schedule described by s.
func (s ScheduleConfig) Build() (Schedule, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	switch s.kind() {
	case ScheduleStep:
		return StepDecay{Every: s.Every, Factor: s.Factor}, nil
	case ScheduleExponential:
		return ExponentialDecay{Rate: s.Rate}, nil
	default:
		return Constant{}, nil
	}
}

// New builds a fresh optimizer from c.
func New(c Config) (Optimizer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	schedule, err := c.Schedule.Build()
	if err != nil {
		return nil, err
	}

	if c.kind() == KindSGD {
		return NewSGD(SGDConfig{
			LR:          c.LR,
			Momentum:    c.Momentum,
			Nesterov:    c.Nesterov,
			WeightDecay: c.WeightDecay,
			Schedule:    schedule,
		}), nil
	}
	return NewAdam(AdamConfig{
		LR:          c.LR,
		Betas:       [2]float64{c.Beta1, c.Beta2},
		Eps:         c.Eps,
		WeightDecay: c.WeightDecay,
		Schedule:    schedule,
	}), nil
}
