// Package serialization provides the persisted form of trained models.
//
// A model is stored as an indented JSON document that describes itself:
//
//	{
//	  "format": "born-learn/neural-net",
//	  "version": 1,
//	  "task": "classification",
//	  "dtype": "float64",
//	  "layers": [
//	    {"type": "input", "shape": [1, 1, 5]},
//	    {"type": "dense", "shape": [1, 1, 10],
//	     "weights": {"rows": 5, "cols": 10, "data": [...]},
//	     "bias": {"length": 10, "data": [...]}},
//	    {"type": "activation", "shape": [1, 1, 10], "activation": "relu"},
//	    ...
//	  ],
//	  "targets": [0, 1, 2, 3, 4],
//	  "checksum": "..."
//	}
//
// The format supports:
//   - Exact float64 round trips (shortest representation that parses back
//     to the same bits)
//   - Byte-identical output for identical models
//   - Structural validation on load, so a malformed document never turns
//     into a half-built model
//   - An optional SHA-256 checksum over layers and targets
//
// Example usage:
//
//	// Save a document
//	if err := serialization.Encode(w, doc, serialization.WriterOptions{Checksum: true}); err != nil {
//	    return err
//	}
//
//	// Load a document
//	doc, err := serialization.Decode(r)
//	if err != nil {
//	    return err
//	}
package serialization
