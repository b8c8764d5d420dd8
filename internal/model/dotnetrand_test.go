package model_test

// dotnetRandom reproduces the subtractive generator of .NET's
// System.Random so that the stored fixture can be scored against the exact
// observations and targets it was recorded with.
type dotnetRandom struct {
	seedArray [56]int32
	inext     int
	inextp    int
}

const (
	dotnetMBIG  = 2147483647
	dotnetMSEED = 161803398
)

func newDotnetRandom(seed int32) *dotnetRandom {
	r := &dotnetRandom{}

	subtraction := seed
	if seed == -2147483648 {
		subtraction = dotnetMBIG
	} else if seed < 0 {
		subtraction = -seed
	}
	mj := int32(dotnetMSEED) - subtraction
	r.seedArray[55] = mj
	mk := int32(1)
	for i := 1; i < 55; i++ {
		ii := (21 * i) % 55
		r.seedArray[ii] = mk
		mk = mj - mk
		if mk < 0 {
			mk += dotnetMBIG
		}
		mj = r.seedArray[ii]
	}
	for k := 1; k < 5; k++ {
		for i := 1; i < 56; i++ {
			r.seedArray[i] -= r.seedArray[1+(i+30)%55]
			if r.seedArray[i] < 0 {
				r.seedArray[i] += dotnetMBIG
			}
		}
	}
	r.inext = 0
	r.inextp = 21
	return r
}

func (r *dotnetRandom) internalSample() int32 {
	locINext := r.inext + 1
	if locINext >= 56 {
		locINext = 1
	}
	locINextp := r.inextp + 1
	if locINextp >= 56 {
		locINextp = 1
	}

	ret := r.seedArray[locINext] - r.seedArray[locINextp]
	if ret == dotnetMBIG {
		ret--
	}
	if ret < 0 {
		ret += dotnetMBIG
	}

	r.seedArray[locINext] = ret
	r.inext = locINext
	r.inextp = locINextp
	return ret
}

// NextDouble returns a value in [0, 1).
func (r *dotnetRandom) NextDouble() float64 {
	return float64(r.internalSample()) * (1.0 / dotnetMBIG)
}

// Next returns an integer in [minValue, maxValue).
func (r *dotnetRandom) Next(minValue, maxValue int) int {
	return int(r.NextDouble()*float64(maxValue-minValue)) + minValue
}
