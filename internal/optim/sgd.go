package optim

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/learn/internal/nn"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	g = gradient + weight_decay * param
//	param = param - lr * g
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + g
//	param = param - lr * velocity                      // classic
//	param = param - lr * (g + momentum * velocity)     // Nesterov
//
// Example:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//	net.UpdateParameters(optimizer)
type SGD struct {
	scheduled
	momentum    float64
	nesterov    bool
	weightDecay float64
	velocities  map[*nn.Parameter][]float64
	scratch     []float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR          float64  // Learning rate (default: 0.01)
	Momentum    float64  // Momentum factor (default: 0.0, range: [0, 1))
	Nesterov    bool     // Use Nesterov momentum (requires Momentum > 0)
	WeightDecay float64  // L2 penalty added to the gradient (default: 0.0)
	Schedule    Schedule // Learning rate schedule (default: Constant)
}

// NewSGD creates a new SGD optimizer.
//
// Parameters:
//   - config: SGD configuration (LR, Momentum, Nesterov, WeightDecay, Schedule)
//
// Returns a new SGD optimizer with defaults filled in.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		scheduled:   newScheduled(config.LR, config.Schedule),
		momentum:    config.Momentum,
		nesterov:    config.Nesterov && config.Momentum != 0,
		weightDecay: config.WeightDecay,
		velocities:  make(map[*nn.Parameter][]float64),
	}
}

// Update applies one SGD step to p.
func (s *SGD) Update(p *nn.Parameter) {
	value, grad := p.Value(), p.Grad()

	g := grad
	if s.weightDecay != 0 {
		s.scratch = resizeScratch(s.scratch, len(grad))
		floats.AddScaledTo(s.scratch, grad, s.weightDecay, value)
		g = s.scratch
	}

	if s.momentum == 0 {
		// param -= lr * g
		floats.AddScaled(value, -s.lr, g)
		return
	}

	velocity, ok := s.velocities[p]
	if !ok {
		velocity = make([]float64, len(value))
		s.velocities[p] = velocity
	}

	// velocity = momentum * velocity + g
	floats.Scale(s.momentum, velocity)
	floats.Add(velocity, g)

	if s.nesterov {
		// param -= lr * (g + momentum * velocity)
		floats.AddScaled(value, -s.lr, g)
		floats.AddScaled(value, -s.lr*s.momentum, velocity)
		return
	}
	floats.AddScaled(value, -s.lr, velocity)
}

// Velocity returns the momentum buffer of p, nil before its first update.
func (s *SGD) Velocity(p *nn.Parameter) []float64 {
	return s.velocities[p]
}

func resizeScratch(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
