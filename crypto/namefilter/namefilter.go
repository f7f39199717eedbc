// Copyright 2026 The wnfs-go Authors
// This file is part of the wnfs-go library.
//
// The wnfs-go library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The wnfs-go library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the wnfs-go library. If not, see <http://www.gnu.org/licenses/>.

// Package namefilter implements the fixed-width, Bloom-filter-like
// accumulator used as an ancestry-preserving obfuscated label: every
// ancestor inumber (and, once saturated, the node's own temporal key) is
// folded into the filter's bits, so a child's filter is always a
// superset of its parent's.
package namefilter

import (
	"crypto/sha256"
	"encoding/binary"
)

// Bits is the fixed width of every namefilter, chosen per spec.md §4.1.
const Bits = 1024

const bytesLen = Bits / 8

// K is the number of independent, domain-separated hash functions used by
// add/contains, mirroring a standard k-hash Bloom filter construction.
const K = 30

// SaturationTarget is the popcount a saturated filter is padded up to: 50%
// of Bits, the commonly documented WNFS constant (see SPEC_FULL.md, Open
// Question decision 2).
const SaturationTarget = Bits / 2

// Filter is a fixed-size Bloom-style bit accumulator.
type Filter [bytesLen]byte

// Empty returns the zero filter.
func Empty() Filter { return Filter{} }

// indices computes the K bit positions an element hashes to, each derived
// from SHA-256 of the element prefixed by a distinct domain-separation tag.
func indices(elem []byte) [K]uint32 {
	var out [K]uint32
	for i := 0; i < K; i++ {
		h := sha256.New()
		var tag [4]byte
		binary.BigEndian.PutUint32(tag[:], uint32(i))
		h.Write(tag[:])
		h.Write(elem)
		sum := h.Sum(nil)
		v := binary.BigEndian.Uint32(sum[:4])
		out[i] = v % Bits
	}
	return out
}

func (f *Filter) setBit(i uint32) {
	f[i/8] |= 1 << (i % 8)
}

func (f Filter) hasBit(i uint32) bool {
	return f[i/8]&(1<<(i%8)) != 0
}

// Add sets the K bits derived from elem. Idempotent.
func (f *Filter) Add(elem []byte) {
	for _, i := range indices(elem) {
		f.setBit(i)
	}
}

// Contains reports whether elem's K bits are all set. May false-positive,
// never false-negative, the usual Bloom filter contract.
func (f Filter) Contains(elem []byte) bool {
	for _, i := range indices(elem) {
		if !f.hasBit(i) {
			return false
		}
	}
	return true
}

// Popcount returns the number of set bits.
func (f Filter) Popcount() int {
	n := 0
	for _, b := range f {
		for b != 0 {
			n += int(b & 1)
			b >>= 1
		}
	}
	return n
}

// Union ORs other's bits into f, used when a child's bare name inherits its
// parent's (spec.md §4 invariant: header.bare_name of child ⊇ parent).
func (f *Filter) Union(other Filter) {
	for i := range f {
		f[i] |= other[i]
	}
}

// Equal reports bitwise equality.
func (f Filter) Equal(other Filter) bool {
	return f == other
}

// Superset reports whether f (as a set of bits) is a superset of other,
// i.e. every bit set in other is also set in f.
func (f Filter) Superset(other Filter) bool {
	for i := range f {
		if f[i]&other[i] != other[i] {
			return false
		}
	}
	return true
}

// Saturate deterministically adds PRF-derived dummy elements, seeded from
// the filter's own current bits, until popcount reaches SaturationTarget.
// Idempotent once the target is reached: calling Saturate again on an
// already-saturated filter is a no-op beyond the loop's first false check.
func (f Filter) Saturate() Filter {
	out := f
	var counter uint64
	for out.Popcount() < SaturationTarget {
		seed := make([]byte, bytesLen+8)
		copy(seed, out[:])
		binary.BigEndian.PutUint64(seed[bytesLen:], counter)
		dummy := sha256.Sum256(seed)
		out.Add(dummy[:])
		counter++
	}
	return out
}

// Bytes returns the filter's raw bit representation, used as CBOR map
// values and as input to the saturated-name hash.
func (f Filter) Bytes() []byte {
	b := make([]byte, bytesLen)
	copy(b, f[:])
	return b
}

// FromBytes reconstructs a Filter from its raw bit representation. Returns
// the zero filter if b is the wrong length, which callers treat as a
// decoding error at a higher layer.
func FromBytes(b []byte) Filter {
	var f Filter
	if len(b) != bytesLen {
		return f
	}
	copy(f[:], b)
	return f
}
