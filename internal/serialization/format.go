package serialization

// Format constants.
const (
	FormatName    = "born-learn/neural-net"
	FormatVersion = 1 // v1: layer list, targets, optional SHA-256 checksum
	DTypeFloat64  = "float64"
)

// Document is the persisted form of a model.
type Document struct {
	Format   string            `json:"format"`             // Always FormatName
	Version  int               `json:"version"`            // Version of the document layout
	Task     string            `json:"task"`               // "classification" or "regression"
	DType    string            `json:"dtype"`              // Element type of weights, always "float64"
	Layers   []Layer           `json:"layers"`             // Layers in network order
	Targets  []float64         `json:"targets"`            // Distinct sorted target values
	Metadata map[string]string `json:"metadata,omitempty"` // Custom metadata
	Checksum string            `json:"checksum,omitempty"` // Hex SHA-256 of layers and targets
}

// Layer describes one layer of the network.
type Layer struct {
	Type       string  `json:"type"`                 // Layer kind, see nn.Kind
	Shape      [3]int  `json:"shape"`                // Output shape [width, height, depth]
	Activation string  `json:"activation,omitempty"` // Activation layers only
	Weights    *Matrix `json:"weights,omitempty"`    // Dense layers only, [input size, units]
	Bias       *Vector `json:"bias,omitempty"`       // Dense layers only, [units]
}

// Matrix is a row-major matrix.
type Matrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// Vector is a dense vector.
type Vector struct {
	Length int       `json:"length"`
	Data   []float64 `json:"data"`
}
