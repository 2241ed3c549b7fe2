// Package bloomkit implements a Bloom filter, a space-efficient probabilistic
// structure for set-membership tests. A query answers either "possibly in the
// set" or "definitely not in the set"; elements can be added but never
// removed. The k probe positions per element are derived from two or three
// murmur3 base hashes by a pluggable Strategy.
package bloomkit

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidFalsePositiveRate = errors.New("bloomkit: false positive rate must be in (0, 1)")
	ErrInvalidExpectedElements  = errors.New("bloomkit: expected elements must be greater than 0")
	ErrInvalidStrategy          = errors.New("bloomkit: unknown hashing strategy")
)

// BloomFilter owns a BitArray sized for an expected element count and a
// target false-positive rate. The shape (m, k, strategy) is fixed at
// construction; Add is the only mutator and only ever flips bits 0→1.
//
// A BloomFilter is safe for concurrent readers. Concurrent writers need
// external locking; a reader racing a writer can at worst see a stale
// "definitely not present" for an insert still in flight.
type BloomFilter struct {
	bits     *BitArray
	m        int
	k        int
	n        int
	p        float64
	strategy Strategy
	inserted int
}

// NewBloomFilter sizes and allocates a filter for the given target
// false-positive rate and expected number of elements:
//
//	m = ceil(-n*ln(p) / ln(2)²)
//	k = round((m/n) * ln(2))
func NewBloomFilter(falsePositiveRate float64, expectedElements int, strategy Strategy) (*BloomFilter, error) {
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFalsePositiveRate, falsePositiveRate)
	}
	if expectedElements <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidExpectedElements, expectedElements)
	}
	if !strategy.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStrategy, uint8(strategy))
	}

	m := optimalBits(expectedElements, falsePositiveRate)
	k := optimalHashCount(m, expectedElements)
	return &BloomFilter{
		bits:     NewBitArray(m),
		m:        m,
		k:        k,
		n:        expectedElements,
		p:        falsePositiveRate,
		strategy: strategy,
	}, nil
}

func optimalBits(n int, p float64) int {
	m := int(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	if m < 1 {
		m = 1
	}
	return m
}

func optimalHashCount(m, n int) int {
	k := int(math.Round(float64(m) / float64(n) * math.Ln2))
	if k < 1 {
		k = 1
	}
	return k
}

// Add inserts item. Adding the same item again leaves the bit array
// unchanged, though the insert counter still advances.
func (f *BloomFilter) Add(item []byte) {
	h1, h2, h3 := baseHashes(item, f.strategy.needsThirdHash())
	for i := 0; i < f.k; i++ {
		pos := f.strategy.position(h1, h2, h3, uint64(i), uint64(f.m))
		if err := f.bits.Set(int(pos)); err != nil {
			// Clamping here would silently corrupt the filter's
			// guarantees, so an out-of-range position is fatal.
			panic(fmt.Sprintf("bloomkit: %s strategy produced bad position: %v", f.strategy, err))
		}
	}
	f.inserted++
}

// AddString inserts the raw bytes of s.
func (f *BloomFilter) AddString(s string) {
	f.Add([]byte(s))
}

// AddAll inserts every item in items.
func (f *BloomFilter) AddAll(items [][]byte) {
	for _, item := range items {
		f.Add(item)
	}
}

// MightContain reports whether item may have been added. A false result is
// definitive: the item was never added. A true result may be a false
// positive.
func (f *BloomFilter) MightContain(item []byte) bool {
	h1, h2, h3 := baseHashes(item, f.strategy.needsThirdHash())
	for i := 0; i < f.k; i++ {
		pos := f.strategy.position(h1, h2, h3, uint64(i), uint64(f.m))
		set, err := f.bits.Get(int(pos))
		if err != nil {
			panic(fmt.Sprintf("bloomkit: %s strategy produced bad position: %v", f.strategy, err))
		}
		if !set {
			return false
		}
	}
	return true
}

// MightContainString reports MightContain for the raw bytes of s.
func (f *BloomFilter) MightContainString(s string) bool {
	return f.MightContain([]byte(s))
}

// MightContainAll reports whether every item in items may have been added.
func (f *BloomFilter) MightContainAll(items [][]byte) bool {
	for _, item := range items {
		if !f.MightContain(item) {
			return false
		}
	}
	return true
}

// BitArrayLength returns m, the number of bits backing the filter.
func (f *BloomFilter) BitArrayLength() int {
	return f.m
}

// HashFunctionCount returns k, the number of probe positions per element.
func (f *BloomFilter) HashFunctionCount() int {
	return f.k
}

func (f *BloomFilter) Strategy() Strategy {
	return f.strategy
}

// ExpectedElements returns the capacity n the filter was sized for.
func (f *BloomFilter) ExpectedElements() int {
	return f.n
}

// NumInserted returns the number of Add calls, counting repeats.
func (f *BloomFilter) NumInserted() int {
	return f.inserted
}

func (f *BloomFilter) IsEmpty() bool {
	return f.inserted == 0
}

// BitsPerElement returns m/n, the bit budget per expected element.
func (f *BloomFilter) BitsPerElement() float64 {
	return float64(f.m) / float64(f.n)
}

// ExpectedFalsePositiveRate estimates the false-positive probability once the
// filter holds its expected n elements: (1 - e^(-k*n/m))^k.
func (f *BloomFilter) ExpectedFalsePositiveRate() float64 {
	return f.falsePositiveRate(f.n)
}

// CurrentFalsePositiveRate estimates the false-positive probability at the
// current insert count.
func (f *BloomFilter) CurrentFalsePositiveRate() float64 {
	return f.falsePositiveRate(f.inserted)
}

func (f *BloomFilter) falsePositiveRate(n int) float64 {
	k := float64(f.k)
	return math.Pow(1-math.Exp(-k*float64(n)/float64(f.m)), k)
}
