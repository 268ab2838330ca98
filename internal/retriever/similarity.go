package retriever

import "math"

// Cosine computes the cosine similarity between two vectors:
// dot(a,b) / (||a|| * ||b||). It is defined as 0 when either vector has zero
// norm, and stays within [-1, 1] otherwise. Vectors of different lengths are
// compared over their common prefix.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
