package model

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/internal/nn"
	"github.com/born-ml/learn/internal/serialization"
)

// Save writes the model to w.
//
// The output is a self-describing JSON document with a checksum; saving
// the same model twice yields identical bytes.
func (m *Model) Save(w io.Writer) error {
	doc, err := m.document()
	if err != nil {
		return err
	}
	return serialization.Encode(w, doc, serialization.WriterOptions{Checksum: true})
}

// SaveTo opens a writer with open, saves the model and closes the writer.
func (m *Model) SaveTo(open func() (io.WriteCloser, error)) (err error) {
	if open == nil {
		return fmt.Errorf("%w: open", nn.ErrNullArgument)
	}
	w, err := open()
	if err != nil {
		return fmt.Errorf("failed to open model writer: %w", err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close model writer: %w", cerr)
		}
	}()
	return m.Save(w)
}

// SaveFile saves the model to the file at path.
func (m *Model) SaveFile(path string) error {
	doc, err := m.document()
	if err != nil {
		return err
	}
	return serialization.WriteFile(path, doc, serialization.WriterOptions{Checksum: true})
}

// Load reads a model saved by Save.
//
// Errors:
//   - serialization.ErrFormat (as *serialization.FormatError) for malformed
//     documents, unknown layer types, inconsistent dimensions or a checksum
//     mismatch
//   - serialization.ErrVersionMismatch for documents from a newer version
//
// No model is returned on error.
func Load(r io.Reader) (*Model, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: reader", nn.ErrNullArgument)
	}
	doc, err := serialization.Decode(r)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

// LoadFrom opens a reader with open, loads a model and closes the reader.
func LoadFrom(open func() (io.ReadCloser, error)) (*Model, error) {
	if open == nil {
		return nil, fmt.Errorf("%w: open", nn.ErrNullArgument)
	}
	r, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open model reader: %w", err)
	}
	defer func() { _ = r.Close() }()
	return Load(r)
}

// LoadFile loads the model stored at path.
func LoadFile(path string) (*Model, error) {
	doc, err := serialization.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

// document converts the model to its persisted form.
func (m *Model) document() (*serialization.Document, error) {
	layers := m.network.Layers()
	doc := &serialization.Document{
		Task:     m.Task().String(),
		Layers:   make([]serialization.Layer, len(layers)),
		Targets:  m.Targets(),
		Metadata: m.Metadata(),
	}

	for i, l := range layers {
		entry := serialization.Layer{
			Type:  string(l.Kind()),
			Shape: l.OutputShape().Triple(),
		}
		switch layer := l.(type) {
		case *nn.Dense:
			w := layer.Weights()
			rows, cols := w.Dims()
			entry.Weights = &serialization.Matrix{Rows: rows, Cols: cols, Data: rowMajor(w)}
			entry.Bias = &serialization.Vector{
				Length: layer.Bias().Len(),
				Data:   append([]float64(nil), layer.Bias().RawVector().Data...),
			}
		case *nn.ActivationLayer:
			entry.Activation = layer.Activation().String()
		case *nn.Input, nn.OutputLayer:
		default:
			return nil, fmt.Errorf("cannot persist %s layer %d", l.Kind(), i)
		}
		doc.Layers[i] = entry
	}
	return doc, nil
}

// fromDocument rebuilds a model from a validated document.
func fromDocument(doc *serialization.Document) (*Model, error) {
	net := nn.NewNetwork()
	for i, entry := range doc.Layers {
		layer, err := buildLayer(entry)
		if err != nil {
			return nil, &serialization.FormatError{Type: "layer", Layer: i, Details: err.Error(), Err: err}
		}
		if err := net.AddLayer(layer); err != nil {
			return nil, &serialization.FormatError{Type: "network", Layer: i, Details: err.Error(), Err: err}
		}
		if d, ok := layer.(*nn.Dense); ok {
			weights := mat.NewDense(entry.Weights.Rows, entry.Weights.Cols, append([]float64(nil), entry.Weights.Data...))
			bias := mat.NewVecDense(entry.Bias.Length, append([]float64(nil), entry.Bias.Data...))
			if err := d.SetParameters(weights, bias); err != nil {
				return nil, &serialization.FormatError{Type: "weights", Layer: i, Details: err.Error(), Err: err}
			}
		}
	}

	m, err := New(net, doc.Targets)
	if err != nil {
		return nil, &serialization.FormatError{Type: "network", Layer: -1, Details: err.Error(), Err: err}
	}
	return m.WithMetadata(doc.Metadata), nil
}

func buildLayer(entry serialization.Layer) (nn.Layer, error) {
	shape := nn.ShapeFromTriple(entry.Shape)
	switch kind := nn.Kind(entry.Type); kind {
	case nn.KindInput:
		return nn.NewInputShape(shape), nil
	case nn.KindDense:
		return nn.NewDense(shape.Size(), nn.Undefined), nil
	case nn.KindActivation:
		act, err := nn.ParseActivation(entry.Activation)
		if err != nil {
			return nil, err
		}
		return nn.NewActivationLayer(act), nil
	default:
		return nn.NewOutput(kind, shape.Size())
	}
}

func rowMajor(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	data := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		data = append(data, m.RawRowView(r)...)
	}
	return data
}
