package bitset

import (
	"math/bits"
)

// Fixed is a dense, fixed-size bitset over a segment's doc-ID space.
// It is populated once at segment build time and read-only afterwards,
// so concurrent readers need no synchronization.
type Fixed struct {
	words []uint64
	size  uint32
}

// New creates a Fixed bitset covering [0, size) bits, all unset.
func New(size uint32) *Fixed {
	return &Fixed{
		words: make([]uint64, (size+63)/64),
		size:  size,
	}
}

// FromWords reconstructs a Fixed bitset from its raw words.
// The words slice is taken over, not copied.
func FromWords(words []uint64, size uint32) *Fixed {
	return &Fixed{words: words, size: size}
}

// Len returns the number of bits the set covers.
func (f *Fixed) Len() uint32 {
	return f.size
}

// Set sets bit i. Only called during segment construction.
func (f *Fixed) Set(i uint32) {
	f.words[i>>6] |= 1 << (i & 63)
}

// Test reports whether bit i is set.
func (f *Fixed) Test(i uint32) bool {
	if i >= f.size {
		return false
	}
	return f.words[i>>6]&(1<<(i&63)) != 0
}

// Count returns the number of set bits.
func (f *Fixed) Count() int {
	n := 0
	for _, w := range f.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// PrevSetBit returns the largest set bit at or before i, or -1 when no
// bit at or before i is set. i must be below Len().
func (f *Fixed) PrevSetBit(i uint32) int {
	wi := int(i >> 6)
	// Mask off bits above i in its own word.
	w := f.words[wi] & (^uint64(0) >> (63 - i&63))
	for {
		if w != 0 {
			return wi<<6 + 63 - bits.LeadingZeros64(w)
		}
		wi--
		if wi < 0 {
			return -1
		}
		w = f.words[wi]
	}
}

// NextSetBit returns the smallest set bit at or after i, or -1 when the
// remainder of the set is empty.
func (f *Fixed) NextSetBit(i uint32) int {
	if i >= f.size {
		return -1
	}
	wi := int(i >> 6)
	w := f.words[wi] &^ (1<<(i&63) - 1)
	for {
		if w != 0 {
			return wi<<6 + bits.TrailingZeros64(w)
		}
		wi++
		if wi >= len(f.words) {
			return -1
		}
		w = f.words[wi]
	}
}

// Words exposes the raw backing words for serialization.
func (f *Fixed) Words() []uint64 {
	return f.words
}
