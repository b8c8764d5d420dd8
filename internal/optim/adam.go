package optim

import (
	"math"

	"github.com/born-ml/learn/internal/nn"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSprop and momentum:
//   - Maintains exponential moving averages of gradients (first moment)
//   - Maintains exponential moving averages of squared gradients (second moment)
//   - Applies bias correction to compensate for initialization at zero
//
// Update rule:
//
//	g = gradient + weight_decay * param
//	m_t = beta1 * m_{t-1} + (1-beta1) * g              // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * g²             // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)   // Parameter update
//
// The timestep t is counted per parameter, so every parameter is bias
// corrected by the number of updates it actually received.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Example:
//
//	optimizer := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
type Adam struct {
	scheduled
	beta1       float64
	beta2       float64
	eps         float64
	weightDecay float64
	state       map[*nn.Parameter]*adamState
}

type adamState struct {
	t int       // Timestep for bias correction
	m []float64 // First moment estimates
	v []float64 // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR          float64    // Learning rate (default: 0.001)
	Betas       [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps         float64    // Term for numerical stability (default: 1e-8)
	WeightDecay float64    // L2 penalty added to the gradient (default: 0.0)
	Schedule    Schedule   // Learning rate schedule (default: Constant)
}

// NewAdam creates a new Adam optimizer.
//
// Parameters:
//   - config: Adam configuration (LR, Betas, Eps, WeightDecay, Schedule)
//
// Default hyperparameters:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		scheduled:   newScheduled(config.LR, config.Schedule),
		beta1:       config.Betas[0],
		beta2:       config.Betas[1],
		eps:         config.Eps,
		weightDecay: config.WeightDecay,
		state:       make(map[*nn.Parameter]*adamState),
	}
}

// Update applies one Adam step to p.
func (a *Adam) Update(p *nn.Parameter) {
	st, ok := a.state[p]
	if !ok {
		st = &adamState{m: make([]float64, p.Len()), v: make([]float64, p.Len())}
		a.state[p] = st
	}
	st.t++

	biasCorrection1 := 1 - math.Pow(a.beta1, float64(st.t))
	biasCorrection2 := 1 - math.Pow(a.beta2, float64(st.t))

	value, grad := p.Value(), p.Grad()
	for i := range value {
		g := grad[i] + a.weightDecay*value[i]

		st.m[i] = a.beta1*st.m[i] + (1-a.beta1)*g
		st.v[i] = a.beta2*st.v[i] + (1-a.beta2)*g*g

		mHat := st.m[i] / biasCorrection1
		vHat := st.v[i] / biasCorrection2

		value[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
	}
}

// GetTimestep returns how many updates p has received.
func (a *Adam) GetTimestep(p *nn.Parameter) int {
	if st, ok := a.state[p]; ok {
		return st.t
	}
	return 0
}
