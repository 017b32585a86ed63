package search

import "math"

// CosineSimilarity returns the cosine of the angle between two vectors: the
// dot product divided by the product of the magnitudes. The result is in
// roughly [-1, 1] and is symmetric in its arguments. A zero or empty vector
// on either side yields 0.
func CosineSimilarity(a, b []float32) float32 {
	dot := dotProduct(a, b)
	ma := magnitude(a)
	mb := magnitude(b)
	if ma == 0 || mb == 0 {
		return 0
	}
	return dot / (ma * mb)
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// magnitude returns the Euclidean norm of a vector.
func magnitude(v []float32) float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	return float32(math.Sqrt(sum))
}
