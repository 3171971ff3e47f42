package storage

import "testing"

func TestEmbeddingRoundTrip(t *testing.T) {
	vec := []float32{0.5, -1.25, 0, 3.14159}

	decoded, err := decodeEmbedding(encodeEmbedding(vec))
	if err != nil {
		t.Fatalf("decodeEmbedding() error = %v", err)
	}
	if len(decoded) != len(vec) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(vec))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("decoded[%d] = %v, want %v", i, decoded[i], vec[i])
		}
	}
}

func TestDecodeEmbedding_BadLength(t *testing.T) {
	if _, err := decodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Error("decodeEmbedding() with truncated blob expected error, got nil")
	}
}
