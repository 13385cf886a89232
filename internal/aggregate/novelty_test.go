package aggregate

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float32
		want   float64
		wantOK bool
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0, true},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0, true},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0, true},
		{"scaled", []float32{2, 2}, []float32{5, 5}, 1.0, true},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0, false},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0, false},
		{"empty", nil, nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := cosineSimilarity(tt.a, tt.b)
		if ok != tt.wantOK {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: similarity = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNoveltyOf(t *testing.T) {
	emb := []float32{1, 0, 0}

	// No comparison set: maximum novelty.
	if got := noveltyOf(emb, nil); got != 1.0 {
		t.Errorf("novelty with no priors = %v, want 1.0", got)
	}

	// Identical prior: zero novelty.
	if got := noveltyOf(emb, [][]float32{{1, 0, 0}}); math.Abs(got) > 1e-9 {
		t.Errorf("novelty vs identical prior = %v, want 0", got)
	}

	// Orthogonal prior: full novelty.
	if got := noveltyOf(emb, [][]float32{{0, 1, 0}}); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("novelty vs orthogonal prior = %v, want 1.0", got)
	}

	// Max similarity wins across the set.
	priors := [][]float32{{0, 1, 0}, {1, 0, 0}}
	if got := noveltyOf(emb, priors); math.Abs(got) > 1e-9 {
		t.Errorf("novelty vs mixed priors = %v, want 0 (closest prior dominates)", got)
	}

	// Unusable priors (zero vectors) fall back to maximum novelty.
	if got := noveltyOf(emb, [][]float32{{0, 0, 0}}); got != 1.0 {
		t.Errorf("novelty vs zero-norm priors = %v, want 1.0", got)
	}

	// Opposite prior clamps to [0, 1] rather than exceeding 1.
	if got := noveltyOf(emb, [][]float32{{-1, 0, 0}}); got != 1.0 {
		t.Errorf("novelty vs opposite prior = %v, want clamped 1.0", got)
	}
}
