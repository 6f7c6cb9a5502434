// Package similarity provides weight-map similarity measures used by the
// scoring strategies.
package similarity

import (
	"math"
	"sort"
)

// Cosine computes the cosine similarity between two weight maps over the
// union of their keys. Returns a value in [0,1] for non-negative weights;
// either map being empty yields 0.
func Cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for key, av := range a {
		dotProduct += av * b[key]
		normA += av * av
	}
	for _, bv := range b {
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// UniformVector spreads unit weight evenly over the given keys, so a
// candidate with k genres gets weight 1/k per genre. Duplicate keys
// collapse before weighting.
func UniformVector(keys []string) map[string]float64 {
	if len(keys) == 0 {
		return nil
	}
	distinct := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			distinct[k] = struct{}{}
		}
	}
	if len(distinct) == 0 {
		return nil
	}
	w := 1.0 / float64(len(distinct))
	vec := make(map[string]float64, len(distinct))
	for k := range distinct {
		vec[k] = w
	}
	return vec
}

// Overlap returns the keys present in both maps, ordered by their weight in
// a (descending, ties alphabetical). Used for explanation text.
func Overlap(a, b map[string]float64) []string {
	shared := make([]string, 0, len(a))
	for key := range a {
		if _, ok := b[key]; ok {
			shared = append(shared, key)
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		if a[shared[i]] != a[shared[j]] {
			return a[shared[i]] > a[shared[j]]
		}
		return shared[i] < shared[j]
	})
	return shared
}
