package llm

import (
	"math"
	"testing"
)

func TestHashEmbedding_Deterministic(t *testing.T) {
	a := HashEmbedding("pm kisan income support")
	b := HashEmbedding("pm kisan income support")

	if len(a) != EmbeddingDim {
		t.Fatalf("HashEmbedding() length = %d, want %d", len(a), EmbeddingDim)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("HashEmbedding() not deterministic at index %d", i)
		}
	}
}

func TestHashEmbedding_UnitNorm(t *testing.T) {
	vec := HashEmbedding("ayushman bharat health coverage for families")

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
		t.Errorf("HashEmbedding() norm = %v, want 1.0", math.Sqrt(sum))
	}
}

func TestHashEmbedding_DistinguishesTexts(t *testing.T) {
	a := HashEmbedding("agriculture subsidy")
	b := HashEmbedding("scholarship portal")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("HashEmbedding() produced identical vectors for different texts")
	}
}

func TestHashEmbedding_EmptyText(t *testing.T) {
	vec := HashEmbedding("")
	if len(vec) != EmbeddingDim {
		t.Fatalf("HashEmbedding() length = %d, want %d", len(vec), EmbeddingDim)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("HashEmbedding(\"\") has non-zero value at %d", i)
		}
	}
}

func TestHashEmbedding_CaseInsensitive(t *testing.T) {
	a := HashEmbedding("KISAN Portal")
	b := HashEmbedding("kisan portal")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("HashEmbedding() should be case-insensitive")
		}
	}
}
