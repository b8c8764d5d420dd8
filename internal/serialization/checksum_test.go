package serialization

import (
	"errors"
	"testing"
)

// TestComputeChecksum verifies SHA-256 checksum computation.
func TestComputeChecksum(t *testing.T) {
	data := []byte("test data")
	checksum1 := ComputeChecksum(data)
	checksum2 := ComputeChecksum(data)

	// Same data should produce same checksum
	if checksum1 != checksum2 {
		t.Error("Checksums should match for identical data")
	}

	// Different data should produce different checksum
	checksum3 := ComputeChecksum([]byte("different data"))
	if checksum1 == checksum3 {
		t.Error("Checksums should differ for different data")
	}
}

// TestValidateChecksum verifies checksum validation.
func TestValidateChecksum(t *testing.T) {
	checksum := ComputeChecksum([]byte("test data"))

	if err := ValidateChecksum(checksum, checksum); err != nil {
		t.Errorf("Expected no error for matching checksums, got: %v", err)
	}

	other := ComputeChecksum([]byte("other data"))
	if err := ValidateChecksum(checksum, other); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Expected ErrChecksumMismatch, got: %v", err)
	}
}

// TestDocumentChecksum verifies that the digest covers layers and targets only.
func TestDocumentChecksum(t *testing.T) {
	doc := testDocument()
	sum1, err := DocumentChecksum(doc)
	if err != nil {
		t.Fatalf("DocumentChecksum failed: %v", err)
	}
	if len(sum1) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(sum1))
	}

	doc.Metadata = map[string]string{"note": "not covered"}
	sum2, _ := DocumentChecksum(doc)
	if sum1 != sum2 {
		t.Error("Metadata must not change the checksum")
	}

	doc.Layers[1].Weights.Data[0] += 1e-12
	sum3, _ := DocumentChecksum(doc)
	if sum1 == sum3 {
		t.Error("Changing a weight must change the checksum")
	}
}

// TestVerifyChecksum_Malformed rejects digests that are not hex SHA-256.
func TestVerifyChecksum_Malformed(t *testing.T) {
	for _, sum := range []string{"zz", "abcd", "0123456789abcdef"} {
		doc := testDocument()
		doc.Checksum = sum
		err := verifyChecksum(doc)
		var formatErr *FormatError
		if !errors.As(err, &formatErr) || formatErr.Type != "checksum" {
			t.Errorf("checksum %q: expected checksum FormatError, got %v", sum, err)
		}
	}
}
