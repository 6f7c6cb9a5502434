package models

import (
	"sort"
	"time"
)

// TasteProfile holds a user's taste as five independent weight maps.
// Each map is normalized so its values sum to 1.0; a map with no signal
// stays empty rather than carrying NaN weights.
type TasteProfile struct {
	Genres     map[string]float64 `json:"genres"`
	Styles     map[string]float64 `json:"styles"`
	Eras       map[string]float64 `json:"eras"` // decade buckets, e.g. "1970s"
	Labels     map[string]float64 `json:"labels"`
	Artists    map[string]float64 `json:"artists"`
	ComputedAt time.Time          `json:"computed_at"`
}

// IsEmpty reports whether the profile carries no taste signal at all.
func (p *TasteProfile) IsEmpty() bool {
	return len(p.Genres) == 0 && len(p.Styles) == 0 && len(p.Eras) == 0 &&
		len(p.Labels) == 0 && len(p.Artists) == 0
}

// WeightEntry pairs a map key with its normalized weight.
type WeightEntry struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// TopWeights returns the n heaviest entries of a weight map, descending.
// Ties are broken alphabetically so the result is deterministic.
func TopWeights(m map[string]float64, n int) []WeightEntry {
	entries := make([]WeightEntry, 0, len(m))
	for name, w := range m {
		entries = append(entries, WeightEntry{Name: name, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Name < entries[j].Name
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
