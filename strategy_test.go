package bloomkit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoubleHashPositions(t *testing.T) {
	// pos(i) = (h1 + i*h2) mod m
	require.Equal(t, uint64(5), DoubleHash.position(5, 3, 0, 0, 100))
	require.Equal(t, uint64(8), DoubleHash.position(5, 3, 0, 1, 100))
	require.Equal(t, uint64(11), DoubleHash.position(5, 3, 0, 2, 100))
}

func TestTripleHashPositions(t *testing.T) {
	// pos(i) = (h1 + i*h2 + i²*h3) mod m
	require.Equal(t, uint64(5), TripleHash.position(5, 3, 7, 0, 100))
	require.Equal(t, uint64(15), TripleHash.position(5, 3, 7, 1, 100))
	require.Equal(t, uint64(39), TripleHash.position(5, 3, 7, 2, 100))
}

func TestEnhancedDoubleHashPositions(t *testing.T) {
	// pos(i) = (h1 + i*h2 + (i³-i)/6) mod m; the correction term is 0 for
	// i<2, then 1, 4, 10, ...
	require.Equal(t, uint64(5), EnhancedDoubleHash.position(5, 3, 0, 0, 100))
	require.Equal(t, uint64(8), EnhancedDoubleHash.position(5, 3, 0, 1, 100))
	require.Equal(t, uint64(12), EnhancedDoubleHash.position(5, 3, 0, 2, 100))
	require.Equal(t, uint64(18), EnhancedDoubleHash.position(5, 3, 0, 3, 100))
}

func TestEnhancedCorrectionTermIsIntegral(t *testing.T) {
	for i := uint64(0); i < 1000; i++ {
		require.Zero(t, (i*i*i-i)%6, "i=%d", i)
	}
}

func TestPositionsStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	strategies := []Strategy{DoubleHash, TripleHash, EnhancedDoubleHash}

	for _, m := range []uint64{1, 2, 7, 64, 9586} {
		for trial := 0; trial < 200; trial++ {
			h1, h2, h3 := rng.Uint64(), rng.Uint64(), rng.Uint64()
			for _, s := range strategies {
				for i := uint64(0); i < 32; i++ {
					pos := s.position(h1, h2, h3, i, m)
					require.Less(t, pos, m, "strategy=%s m=%d i=%d", s, m, i)
				}
			}
		}
	}
}

func TestEnhancedBreaksDoubleHashCycle(t *testing.T) {
	// With h2 sharing a large factor with m, plain double hashing revisits
	// a short cycle; the cubic correction must leave it.
	const m = 64
	seen := map[uint64]bool{}
	for i := uint64(0); i < 16; i++ {
		seen[DoubleHash.position(0, 32, 0, i, m)] = true
	}
	require.Len(t, seen, 2)

	seen = map[uint64]bool{}
	for i := uint64(0); i < 16; i++ {
		seen[EnhancedDoubleHash.position(0, 32, 0, i, m)] = true
	}
	require.Greater(t, len(seen), 2)
}

func TestStrategyString(t *testing.T) {
	require.Equal(t, "double", DoubleHash.String())
	require.Equal(t, "triple", TripleHash.String())
	require.Equal(t, "enhanced-double", EnhancedDoubleHash.String())
	require.True(t, DoubleHash.valid())
	require.False(t, Strategy(17).valid())
}
