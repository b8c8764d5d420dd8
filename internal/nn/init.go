package nn

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Initialization selects the distribution used for fresh weights.
type Initialization int

const (
	// GlorotUniform draws from U(-sqrt(6/(fan_in+fan_out)), sqrt(6/(fan_in+fan_out))).
	GlorotUniform Initialization = iota
	// HeUniform draws from U(-sqrt(6/fan_in), sqrt(6/fan_in)). Suited to ReLU stacks.
	HeUniform
)

func (i Initialization) String() string {
	switch i {
	case GlorotUniform:
		return "glorot_uniform"
	case HeUniform:
		return "he_uniform"
	default:
		return fmt.Sprintf("initialization(%d)", int(i))
	}
}

// ParseInitialization is the inverse of Initialization.String.
func ParseInitialization(name string) (Initialization, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "glorot_uniform", "glorot", "xavier":
		return GlorotUniform, nil
	case "he_uniform", "he":
		return HeUniform, nil
	default:
		return GlorotUniform, fmt.Errorf("unknown initialization %q", name)
	}
}

// Bound returns the half-width of the uniform distribution for the given fans.
func (i Initialization) Bound(fanIn, fanOut int) float64 {
	switch i {
	case HeUniform:
		return math.Sqrt(6.0 / float64(fanIn))
	default:
		return math.Sqrt(6.0 / float64(fanIn+fanOut))
	}
}

// fillUniform fills data in order with values from U(-bound, bound).
//
// The rng is always explicit so that two runs with the same seed produce
// bit-identical weights.
func fillUniform(data []float64, bound float64, rng *rand.Rand) {
	for k := range data {
		data[k] = (rng.Float64()*2.0 - 1.0) * bound
	}
}
