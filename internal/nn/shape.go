package nn

import "fmt"

// Shape describes the dimensionality of one sample flowing between layers.
//
// Samples are stored flattened as one row of a [batch, Size()] activation
// matrix. Fully connected layers keep their units in Depth with Width and
// Height set to 1, see Flat.
type Shape struct {
	Width  int
	Height int
	Depth  int
}

// Flat returns the shape of a flat vector with n units.
func Flat(n int) Shape {
	return Shape{Width: 1, Height: 1, Depth: n}
}

// Size returns the number of values in one sample.
func (s Shape) Size() int {
	return s.Width * s.Height * s.Depth
}

// Valid reports whether every dimension is positive.
func (s Shape) Valid() bool {
	return s.Width > 0 && s.Height > 0 && s.Depth > 0
}

// IsZero reports whether the shape has not been set.
func (s Shape) IsZero() bool {
	return s == Shape{}
}

// Triple returns the shape as [width, height, depth].
func (s Shape) Triple() [3]int {
	return [3]int{s.Width, s.Height, s.Depth}
}

// ShapeFromTriple builds a Shape from [width, height, depth].
func ShapeFromTriple(t [3]int) Shape {
	return Shape{Width: t[0], Height: t[1], Depth: t[2]}
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Width, s.Height, s.Depth)
}
