package bloomkit

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

var ErrIndexOutOfRange = errors.New("bloomkit: bit index out of range")

// BitArray is a fixed-length bit vector. All bits start at 0 and can only be
// set to 1; there is no clear operation, because the filter built on top of it
// is insert-only.
type BitArray struct {
	bits   *bitset.BitSet
	length int
}

func NewBitArray(length int) *BitArray {
	return &BitArray{
		bits:   bitset.New(uint(length)),
		length: length,
	}
}

func (b *BitArray) Len() int {
	return b.length
}

// PopCount returns the number of bits currently set to 1.
func (b *BitArray) PopCount() int {
	return int(b.bits.Count())
}

func (b *BitArray) Set(i int) error {
	if i < 0 || i >= b.length {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, b.length)
	}
	b.bits.Set(uint(i))
	return nil
}

func (b *BitArray) Get(i int) (bool, error) {
	if i < 0 || i >= b.length {
		return false, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, b.length)
	}
	return b.bits.Test(uint(i)), nil
}

// words exposes the backing 64-bit words for snapshotting.
func (b *BitArray) words() []uint64 {
	return b.bits.Bytes()
}

// bitArrayFromWords rebuilds a BitArray from snapshotted words. The word slice
// must cover exactly length bits.
func bitArrayFromWords(length int, words []uint64) (*BitArray, error) {
	if length < 0 || len(words) != (length+63)/64 {
		return nil, fmt.Errorf("bloomkit: %d words cannot back %d bits", len(words), length)
	}
	return &BitArray{
		bits:   bitset.FromWithLength(uint(length), words),
		length: length,
	}, nil
}
