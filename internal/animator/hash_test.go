package animator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashRange(t *testing.T) {
	for n := -20000; n < 20000; n++ {
		for _, x := range []float64{float64(n), float64(n) * 7, float64(n) + 777, float64(n) + 0.5} {
			h := Hash(x)
			if h < 0 || h >= 1 {
				t.Fatalf("Hash(%v) = %v, want [0,1)", x, h)
			}
		}
	}
}

func TestHashIsPure(t *testing.T) {
	for _, n := range []float64{0, 1, 7, 333, 1000, 14999 * 7} {
		assert.Equal(t, math.Float64bits(Hash(n)), math.Float64bits(Hash(n)), "Hash(%v)", n)
	}
}

func TestHashKnownValues(t *testing.T) {
	assert.Equal(t, 0.0, Hash(0))
	assert.InDelta(t, 0.5462177020381205, Hash(1), 1e-9)
	assert.InDelta(t, 0.7778496099854237, Hash(7), 1e-9)
	assert.InDelta(t, 0.7637636510771699, Hash(-3.5), 1e-9)
}
