// Package optim implements the parameter update rules used by the learner.
//
// This package provides:
//   - Optimizer interface: an nn.UpdateRule with a learning rate
//   - SGD: Stochastic Gradient Descent with momentum, Nesterov and L2 decay
//   - Adam: Adaptive Moment Estimation with L2 decay
//   - Schedule: per-epoch learning rate schedules
//
// Optimizers keep their per-parameter state (velocities, moments) keyed by
// *nn.Parameter, so one optimizer instance serves exactly one network.
//
// Example usage:
//
//	optimizer := optim.NewAdam(optim.AdamConfig{LR: 0.001})
//
//	for epoch := range epochs {
//	    optimizer.SetEpoch(epoch)
//	    for _, batch := range batches {
//	        out := net.Forward(batch.X)
//	        net.Backward(lossFn.Gradient(out, batch.Y))
//	        net.UpdateParameters(optimizer)
//	    }
//	}
package optim

import (
	"github.com/born-ml/learn/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Update is called once per parameter per mini-batch with the gradient
// stored on the parameter by the backward pass.
type Optimizer interface {
	nn.UpdateRule

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR overrides the current learning rate.
	SetLR(lr float64)
}

// EpochAware is implemented by optimizers whose learning rate follows a
// schedule. The learner calls SetEpoch at the start of every epoch.
type EpochAware interface {
	SetEpoch(epoch int)
}

// scheduled holds the base learning rate and schedule shared by optimizers.
type scheduled struct {
	baseLR   float64
	lr       float64
	schedule Schedule
}

func newScheduled(lr float64, schedule Schedule) scheduled {
	if schedule == nil {
		schedule = Constant{}
	}
	return scheduled{baseLR: lr, lr: lr, schedule: schedule}
}

// GetLR returns the current learning rate.
func (s *scheduled) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate and makes it the base of the schedule.
func (s *scheduled) SetLR(lr float64) {
	s.baseLR = lr
	s.lr = lr
}

// SetEpoch recomputes the learning rate for the given zero-based epoch.
func (s *scheduled) SetEpoch(epoch int) {
	s.lr = s.schedule.LR(s.baseLR, epoch)
}
