package aggregate

import (
	"math"
	"time"
)

// contributionWeight computes the per-article scalar used both for weighted
// averaging and for contributor ranking:
//
//	weight = confidence x recency decay x normalized credibility
//
// Recency decays exponentially with the configured half-life, measured from
// the article's publication time back from the bucket end. Articles published
// at or after the bucket end get no decay.
func contributionWeight(confidence, credibility float64, publishedAt, bucketEnd time.Time, halfLife time.Duration) float64 {
	conf := clamp(confidence, 0, 1)
	cred := clamp(credibility, 0, 100) / 100.0

	age := bucketEnd.Sub(publishedAt)
	if age < 0 {
		age = 0
	}
	decay := math.Exp2(-age.Seconds() / halfLife.Seconds())

	return conf * decay * cred
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
