package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MaxDocumentSize bounds how much Decode reads.
const MaxDocumentSize = 1 << 30

// Decode reads and validates a document.
//
// Errors:
//   - *FormatError (errors.Is ErrFormat) for syntax errors, a foreign format
//     tag, structural problems, or a checksum mismatch
//   - ErrVersionMismatch for documents written by a newer format version
//
// A document is returned only when every check passed.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return nil, formatError("too_large", -1, "document exceeds %d bytes", MaxDocumentSize)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Type: "syntax", Layer: -1, Details: err.Error(), Err: err}
	}

	if doc.Format != FormatName {
		return nil, formatError("format", -1, "got %q, expected %q", doc.Format, FormatName)
	}
	if doc.Version < 1 {
		return nil, formatError("version", -1, "invalid version %d", doc.Version)
	}
	if doc.Version > FormatVersion {
		return nil, fmt.Errorf("%w: got %d, supported up to %d", ErrVersionMismatch, doc.Version, FormatVersion)
	}

	if err := ValidateDocument(&doc); err != nil {
		return nil, err
	}
	if err := verifyChecksum(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadFile decodes the document stored at path.
func ReadFile(path string) (*Document, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file)
}
