package vision

import (
	"math"
	"math/bits"
)

const (
	hashWeight      = 0.6
	histogramWeight = 0.4
)

// Scorer computes a normalized similarity in [0, 1] between two features.
// The interface exists so tests can substitute a fixed scoring strategy.
type Scorer interface {
	Score(a, b *Feature) float64
}

type combinedScorer struct{}

// NewScorer returns the canonical scorer: 60% hash similarity plus 40%
// histogram similarity, so shape and structure dominate over raw color.
func NewScorer() Scorer {
	return combinedScorer{}
}

func (combinedScorer) Score(a, b *Feature) float64 {
	score := hashWeight*HashSimilarity(a.PHash, b.PHash) +
		histogramWeight*HistogramSimilarity(a.Histogram, b.Histogram)
	return clamp01(score)
}

// HashSimilarity maps Hamming distance onto [0, 1]; identical hashes score 1.
func HashSimilarity(a, b uint64) float64 {
	return 1 - float64(bits.OnesCount64(a^b))/64
}

// HistogramSimilarity is the cosine similarity of the two histograms, clamped
// into [0, 1]. Histograms are non-negative so the natural range already fits;
// clamping guards floating-point overshoot.
func HistogramSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
