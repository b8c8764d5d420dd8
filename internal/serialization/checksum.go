package serialization

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ComputeChecksum computes SHA-256 checksum of data.
func ComputeChecksum(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored [32]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}

// DocumentChecksum returns the hex SHA-256 of the compact JSON encoding of
// the document's layers and targets. Header fields are not covered.
func DocumentChecksum(doc *Document) (string, error) {
	sum, err := payloadChecksum(doc)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}

func payloadChecksum(doc *Document) ([32]byte, error) {
	payload, err := json.Marshal(struct {
		Layers  []Layer   `json:"layers"`
		Targets []float64 `json:"targets"`
	}{doc.Layers, doc.Targets})
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to marshal checksum payload: %w", err)
	}
	return ComputeChecksum(payload), nil
}

// verifyChecksum checks doc.Checksum if the document carries one.
func verifyChecksum(doc *Document) error {
	if doc.Checksum == "" {
		return nil
	}
	raw, err := hex.DecodeString(doc.Checksum)
	if err != nil || len(raw) != sha256.Size {
		return formatError("checksum", -1, "checksum %q is not a hex SHA-256 digest", doc.Checksum)
	}
	var stored [32]byte
	copy(stored[:], raw)

	computed, err := payloadChecksum(doc)
	if err != nil {
		return err
	}
	if err := ValidateChecksum(computed, stored); err != nil {
		return &FormatError{Type: "checksum", Layer: -1, Details: "stored digest does not match content", Err: err}
	}
	return nil
}
