package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_IdenticalMaps(t *testing.T) {
	a := map[string]float64{"Jazz": 0.6, "Funk": 0.4}
	assert.InDelta(t, 1.0, Cosine(a, a), 1e-9)
}

func TestCosine_Disjoint(t *testing.T) {
	a := map[string]float64{"Jazz": 1.0}
	b := map[string]float64{"Metal": 1.0}
	assert.Equal(t, 0.0, Cosine(a, b))
}

func TestCosine_EmptyMaps(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(nil, map[string]float64{"Jazz": 1.0}))
	assert.Equal(t, 0.0, Cosine(map[string]float64{"Jazz": 1.0}, nil))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestCosine_PartialOverlap(t *testing.T) {
	a := map[string]float64{"Jazz": 1.0}
	b := map[string]float64{"Jazz": 0.5, "Funk": 0.5}

	got := Cosine(a, b)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)
	// 0.5 / (1 * sqrt(0.5)) = sqrt(0.5)
	assert.InDelta(t, 0.7071, got, 0.001)
}

func TestUniformVector(t *testing.T) {
	vec := UniformVector([]string{"Jazz", "Funk", "Soul", "Funk"})
	assert.Len(t, vec, 3)
	assert.InDelta(t, 1.0/3.0, vec["Jazz"], 1e-9)

	assert.Nil(t, UniformVector(nil))
	assert.Nil(t, UniformVector([]string{""}))
}

func TestOverlap_OrderedByWeight(t *testing.T) {
	a := map[string]float64{"Jazz": 0.5, "Funk": 0.3, "Soul": 0.2}
	b := map[string]float64{"Funk": 1.0, "Jazz": 1.0, "Metal": 1.0}

	assert.Equal(t, []string{"Jazz", "Funk"}, Overlap(a, b))
}
