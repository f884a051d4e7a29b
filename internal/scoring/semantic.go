package scoring

import "math"

// Cosine computes cosine similarity between two embedding vectors.
// A zero-norm or length-mismatched pair scores 0 instead of NaN.
func Cosine(u, v []float64) float64 {
	if len(u) == 0 || len(u) != len(v) {
		return 0
	}

	var dot, normU, normV float64
	for i := range u {
		dot += u[i] * v[i]
		normU += u[i] * u[i]
		normV += v[i] * v[i]
	}
	if normU == 0 || normV == 0 {
		return 0
	}
	return dot / (math.Sqrt(normU) * math.Sqrt(normV))
}
