package nn

// Parameter represents a trainable parameter of a layer.
//
// Value and Grad are flat row-major views that share storage with the
// layer's weight matrix or bias vector, so an optimizer updating Value
// updates the layer in place.
//
// Example:
//
//	for _, p := range layer.Parameters() {
//	    floats.AddScaled(p.Value(), -lr, p.Grad())
//	}
type Parameter struct {
	name  string    // Parameter name (e.g., "weights", "bias")
	rows  int       // Number of rows (1 for vectors)
	cols  int       // Number of columns
	value []float64 // The parameter values
	grad  []float64 // Gradient accumulated by the last Backward
}

// NewParameter creates a parameter over existing value and gradient storage.
//
// Parameters:
//   - name: Descriptive name for this parameter
//   - rows, cols: Logical dimensions of the parameter
//   - value: Backing storage of the values, len rows*cols
//   - grad: Backing storage of the gradient, len rows*cols
//
// Panics if the slice lengths do not match rows*cols.
func NewParameter(name string, rows, cols int, value, grad []float64) *Parameter {
	if len(value) != rows*cols || len(grad) != rows*cols {
		panic("nn.NewParameter: storage length does not match dimensions")
	}
	return &Parameter{
		name:  name,
		rows:  rows,
		cols:  cols,
		value: value,
		grad:  grad,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Dims returns the logical dimensions of the parameter.
func (p *Parameter) Dims() (rows, cols int) {
	return p.rows, p.cols
}

// Len returns the number of values.
func (p *Parameter) Len() int {
	return len(p.value)
}

// Value returns the parameter values.
func (p *Parameter) Value() []float64 {
	return p.value
}

// Grad returns the gradient computed by the last backward pass.
func (p *Parameter) Grad() []float64 {
	return p.grad
}

// UpdateRule applies an optimizer update to a single parameter in place.
//
// Implementations keep their per-parameter state (momentum, moments) keyed
// by the *Parameter pointer, which is stable for the lifetime of a layer.
type UpdateRule interface {
	Update(p *Parameter)
}
