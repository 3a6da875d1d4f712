package search

import (
	"math"
	"sort"

	"github.com/toriana04/fraudintel/core"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// It is 0 when either vector has zero norm or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores every row of matrix against query, highest first.
// Equal scores keep row order.
func Rank(query []float32, matrix [][]float32) []core.Hit {
	hits := make([]core.Hit, len(matrix))
	for i, row := range matrix {
		hits[i] = core.Hit{Index: i, Score: CosineSimilarity(query, row)}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits
}

// TopK returns at most n of the best ranked rows. It never pads.
func TopK(query []float32, matrix [][]float32, n int) []core.Hit {
	if n <= 0 {
		return []core.Hit{}
	}
	hits := Rank(query, matrix)
	if len(hits) > n {
		hits = hits[:n]
	}
	return hits
}

// Top1 returns the best row, the earliest on ties. ok is false for an empty matrix.
func Top1(query []float32, matrix [][]float32) (hit core.Hit, ok bool) {
	for i, row := range matrix {
		score := CosineSimilarity(query, row)
		if !ok || score > hit.Score {
			hit = core.Hit{Index: i, Score: score}
			ok = true
		}
	}
	return hit, ok
}
