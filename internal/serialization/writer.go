package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriterOptions configures Encode.
type WriterOptions struct {
	Checksum bool // Store a SHA-256 checksum of layers and targets
}

// Encode validates doc and writes it to w as indented JSON.
//
// Format, Version and DType are filled in when empty. Identical documents
// always produce identical bytes.
func Encode(w io.Writer, doc *Document, opts WriterOptions) error {
	if doc == nil {
		return fmt.Errorf("serialization: nil document")
	}

	out := *doc
	if out.Format == "" {
		out.Format = FormatName
	}
	if out.Version == 0 {
		out.Version = FormatVersion
	}
	if out.DType == "" {
		out.DType = DTypeFloat64
	}
	out.Checksum = ""

	if err := ValidateDocument(&out); err != nil {
		return fmt.Errorf("refusing to write invalid document: %w", err)
	}

	if opts.Checksum {
		sum, err := DocumentChecksum(&out)
		if err != nil {
			return err
		}
		out.Checksum = sum
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// WriteFile encodes doc into the file at path, replacing it.
func WriteFile(path string, doc *Document, opts WriterOptions) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return Encode(file, doc, opts)
}
