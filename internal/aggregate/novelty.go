package aggregate

import "math"

// noveltyOf computes 1 minus the maximum cosine similarity between an
// article's embedding and the prior comparison set. An article with no
// comparison set (or no usable vectors) gets maximum novelty.
func noveltyOf(embedding []float32, prior [][]float32) float64 {
	if len(prior) == 0 {
		return 1.0
	}

	maxSim := math.Inf(-1)
	for _, p := range prior {
		sim, ok := cosineSimilarity(embedding, p)
		if !ok {
			continue
		}
		if sim > maxSim {
			maxSim = sim
		}
	}
	if math.IsInf(maxSim, -1) {
		return 1.0
	}

	return clamp(1.0-maxSim, 0, 1)
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths or zero-norm vectors are not comparable.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
