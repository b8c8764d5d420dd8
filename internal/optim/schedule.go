package optim

import "math"

// Schedule maps a base learning rate and a zero-based epoch to the learning
// rate used during that epoch.
type Schedule interface {
	LR(base float64, epoch int) float64
}

// Constant keeps the base learning rate.
type Constant struct{}

// LR returns base.
func (Constant) LR(base float64, _ int) float64 {
	return base
}

// StepDecay multiplies the learning rate by Factor every Every epochs.
//
//	lr = base * Factor^floor(epoch / Every)
type StepDecay struct {
	Every  int
	Factor float64
}

// LR returns the decayed learning rate.
func (s StepDecay) LR(base float64, epoch int) float64 {
	if s.Every <= 0 {
		return base
	}
	return base * math.Pow(s.Factor, float64(epoch/s.Every))
}

// ExponentialDecay shrinks the learning rate smoothly.
//
//	lr = base * exp(-Rate * epoch)
type ExponentialDecay struct {
	Rate float64
}

// LR returns the decayed learning rate.
func (e ExponentialDecay) LR(base float64, epoch int) float64 {
	return base * math.Exp(-e.Rate*float64(epoch))
}
