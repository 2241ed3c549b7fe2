package bloomkit

import "fmt"

// Strategy selects how the k probe positions are derived from the base hash
// values. The set is closed; adding a scheme means adding a constant and a
// case in position.
type Strategy uint8

const (
	// DoubleHash probes (h1 + i*h2) mod m. Cheapest; the sequence cycles
	// with period m/gcd(h2, m).
	DoubleHash Strategy = iota

	// TripleHash probes (h1 + i*h2 + i²*h3) mod m, spending a third base
	// hash to decorrelate positions.
	TripleHash

	// EnhancedDoubleHash probes (h1 + i*h2 + (i³-i)/6) mod m, breaking the
	// short cycles of plain double hashing without a third hash
	// (Dillinger & Manolios).
	EnhancedDoubleHash
)

func (s Strategy) String() string {
	switch s {
	case DoubleHash:
		return "double"
	case TripleHash:
		return "triple"
	case EnhancedDoubleHash:
		return "enhanced-double"
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

func (s Strategy) valid() bool {
	return s <= EnhancedDoubleHash
}

// needsThirdHash reports whether the strategy consumes h3. Enhanced double
// hashing gets by on h1 and h2 alone.
func (s Strategy) needsThirdHash() bool {
	return s == TripleHash
}

// position returns the i-th probe position in [0, m). All arithmetic is
// uint64, wrapping mod 2^64 before the final reduction, so the result is
// always in range.
func (s Strategy) position(h1, h2, h3, i, m uint64) uint64 {
	switch s {
	case DoubleHash:
		return (h1 + i*h2) % m
	case TripleHash:
		return (h1 + i*h2 + i*i*h3) % m
	case EnhancedDoubleHash:
		// (i³-i) is a product of three consecutive integers, so the
		// division by 6 is exact.
		return (h1 + i*h2 + (i*i*i-i)/6) % m
	}
	panic(fmt.Sprintf("bloomkit: position called with unknown strategy %d", uint8(s)))
}
