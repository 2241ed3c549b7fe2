package bloomkit

import "github.com/spaolacci/murmur3"

// Base hash salts. Each of the two (or three) base values is a murmur3 64-bit
// hash of the element under its own fixed salt, which keeps the values
// pairwise independent while staying deterministic across processes.
const (
	seedA uint32 = 0x5bd1e995
	seedB uint32 = 0x9e3779b9
	seedC uint32 = 0x85ebca6b
)

// h2Fallback replaces a zero second hash. With h2 == 0 every probe would land
// back in h1's bucket.
const h2Fallback uint64 = 0x27d4eb2f165667c5

// baseHashes derives the base hash values for item. h3 is only needed by
// triple hashing and is skipped unless withThird is set.
func baseHashes(item []byte, withThird bool) (h1, h2, h3 uint64) {
	h1 = murmur3.Sum64WithSeed(item, seedA)
	h2 = murmur3.Sum64WithSeed(item, seedB)
	if h2 == 0 {
		h2 = h2Fallback
	}
	if withThird {
		h3 = murmur3.Sum64WithSeed(item, seedC)
	}
	return h1, h2, h3
}
