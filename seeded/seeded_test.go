package seeded

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameSequence(t *testing.T) {
	for _, seed := range []int64{0, 1, 3, -7, 1 << 40} {
		a, b := New(seed), New(seed)
		for i := 0; i < 1000; i++ {
			va, vb := a(), b()
			require.Equal(t, va, vb, "seed %d draw %d", seed, i)
			require.GreaterOrEqual(t, va, 0.0)
			require.Less(t, va, 1.0)
		}
	}
}

func TestSeedThreeFirstDraws(t *testing.T) {
	first, second := New(3), New(3)
	var drawsA, drawsB [4]float64
	for i := range drawsA {
		drawsA[i] = first()
	}
	for i := range drawsB {
		drawsB[i] = second()
	}
	assert.Equal(t, drawsA, drawsB)
	assert.NotEqual(t, drawsA[0], drawsA[1])
}

func TestIndependentInstances(t *testing.T) {
	a, b := New(3), New(3)
	a()
	a()
	// Advancing a must not advance b.
	assert.Equal(t, New(3)(), b())
}

func TestDifferentSeedsDiffer(t *testing.T) {
	assert.NotEqual(t, New(1)(), New(2)())
}

func TestBetween(t *testing.T) {
	next := New(3)
	for i := 0; i < 1000; i++ {
		v := Between(-4, 4, next)
		require.GreaterOrEqual(t, v, -4.0)
		require.Less(t, v, 4.0)
	}
}
