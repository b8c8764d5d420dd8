package serialization

import (
	"math"
	"sort"

	"github.com/born-ml/learn/internal/nn"
)

// Validation limits for resource protection.
const (
	MaxLayerCount = 4096    // Maximum number of layers in a document
	MaxLayerUnits = 1 << 24 // Maximum size of one layer's output
)

// ValidateDocument checks that doc describes a network the nn package can
// rebuild: an input layer first, an output layer last, and parameter
// dimensions that agree with the neighbouring layers. Every weight, bias
// and target must be finite.
func ValidateDocument(doc *Document) error {
	if doc.DType != DTypeFloat64 {
		return formatError("dtype", -1, "unsupported dtype %q, want %q", doc.DType, DTypeFloat64)
	}
	task, err := nn.ParseTask(doc.Task)
	if err != nil {
		return formatError("task", -1, "%v", err)
	}

	// Validate layer count (DoS prevention).
	if len(doc.Layers) == 0 {
		return formatError("layers", -1, "document has no layers")
	}
	if len(doc.Layers) > MaxLayerCount {
		return formatError("too_many_layers", -1, "got %d, max %d", len(doc.Layers), MaxLayerCount)
	}

	var prev nn.Shape
	for i := range doc.Layers {
		shape, err := validateLayer(&doc.Layers[i], i, len(doc.Layers), prev, task)
		if err != nil {
			return err
		}
		prev = shape
	}

	return validateTargets(doc, task)
}

// validateLayer checks one layer against the output shape of the previous
// layer and returns its own output shape. The recorded shape must be the
// one the layer produces when rebuilt: flat for dense and output layers,
// the previous shape for activations.
//
//nolint:gocyclo,cyclop // One branch per layer kind.
func validateLayer(l *Layer, index, count int, prev nn.Shape, task nn.Task) (nn.Shape, error) {
	var none nn.Shape
	shape := nn.ShapeFromTriple(l.Shape)
	if !shape.Valid() || shape.Size() > MaxLayerUnits {
		return none, formatError("shape", index, "invalid shape %v", l.Shape)
	}
	size := shape.Size()
	kind := nn.Kind(l.Type)
	last := index == count-1

	switch kind {
	case nn.KindInput, nn.KindDense, nn.KindActivation, nn.KindSVM, nn.KindSoftMax, nn.KindSquaredError:
	default:
		return none, formatError("layer_type", index, "unknown layer type %q", l.Type)
	}
	if index == 0 && kind != nn.KindInput {
		return none, formatError("layer_order", index, "first layer must be %q, got %q", nn.KindInput, l.Type)
	}
	if kind != nn.KindDense && (l.Weights != nil || l.Bias != nil) {
		return none, formatError("parameters", index, "%s layer cannot carry weights or bias", l.Type)
	}
	if kind != nn.KindActivation && l.Activation != "" {
		return none, formatError("activation", index, "%s layer cannot carry an activation", l.Type)
	}

	switch kind {
	case nn.KindInput:
		if index != 0 {
			return none, formatError("layer_order", index, "input layer after position 0")
		}
		if last {
			return none, formatError("layer_order", index, "network has no output layer")
		}

	case nn.KindDense:
		if last {
			return none, formatError("layer_order", index, "network has no output layer")
		}
		if shape != nn.Flat(size) {
			return none, formatError("shape", index, "dense shape %v is not flat", l.Shape)
		}
		if err := validateDense(l, index, prev.Size(), size); err != nil {
			return none, err
		}

	case nn.KindActivation:
		if last {
			return none, formatError("layer_order", index, "network has no output layer")
		}
		if _, err := nn.ParseActivation(l.Activation); err != nil {
			return none, formatError("activation", index, "%v", err)
		}
		if shape != prev {
			return none, formatError("shape", index, "activation shape %v != previous shape %v", l.Shape, prev.Triple())
		}

	case nn.KindSVM, nn.KindSoftMax, nn.KindSquaredError:
		if !last {
			return none, formatError("layer_order", index, "output layer %q must be last", l.Type)
		}
		if size != prev.Size() {
			return none, formatError("shape", index, "output size %d != previous size %d", size, prev.Size())
		}
		if shape != nn.Flat(size) {
			return none, formatError("shape", index, "output shape %v is not flat", l.Shape)
		}
		want := nn.Classification
		if kind == nn.KindSquaredError {
			want = nn.Regression
		}
		if task != want {
			return none, formatError("task", index, "%s layer does not produce %s output", l.Type, task)
		}
	}
	return shape, nil
}

func validateDense(l *Layer, index, prev, units int) error {
	w, b := l.Weights, l.Bias
	if w == nil || b == nil {
		return formatError("parameters", index, "dense layer needs weights and bias")
	}
	if w.Rows != prev {
		return formatError("weights", index, "rows %d != previous layer size %d", w.Rows, prev)
	}
	if w.Cols != units {
		return formatError("weights", index, "cols %d != layer size %d", w.Cols, units)
	}
	if len(w.Data) != w.Rows*w.Cols {
		return formatError("weights", index, "data length %d != %d x %d", len(w.Data), w.Rows, w.Cols)
	}
	if b.Length != units || len(b.Data) != b.Length {
		return formatError("bias", index, "length %d with %d values, want %d", b.Length, len(b.Data), units)
	}
	if i, ok := firstNonFinite(w.Data); ok {
		return formatError("weights", index, "non-finite value at %d", i)
	}
	if i, ok := firstNonFinite(b.Data); ok {
		return formatError("bias", index, "non-finite value at %d", i)
	}
	return nil
}

func validateTargets(doc *Document, task nn.Task) error {
	if i, ok := firstNonFinite(doc.Targets); ok {
		return formatError("targets", -1, "non-finite target at %d", i)
	}
	if !sort.SliceIsSorted(doc.Targets, func(i, j int) bool { return doc.Targets[i] < doc.Targets[j] }) {
		return formatError("targets", -1, "targets must be sorted")
	}
	for i := 1; i < len(doc.Targets); i++ {
		if doc.Targets[i] == doc.Targets[i-1] {
			return formatError("targets", -1, "duplicate target %v", doc.Targets[i])
		}
	}

	if task != nn.Classification {
		return nil
	}
	classes := nn.ShapeFromTriple(doc.Layers[len(doc.Layers)-1].Shape).Size()
	if len(doc.Targets) == 0 {
		return formatError("targets", -1, "classification model without targets")
	}
	for _, t := range doc.Targets {
		if t != math.Trunc(t) || t < 0 || int(t) >= classes {
			return formatError("targets", -1, "target %v is not a class in [0, %d)", t, classes)
		}
	}
	return nil
}

func firstNonFinite(data []float64) (int, bool) {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i, true
		}
	}
	return 0, false
}
