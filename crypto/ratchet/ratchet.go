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

// Package ratchet implements the skip-ratchet key schedule: a hash chain
// that supports jumping forward by an arbitrary number of steps without
// hashing once per step, by composing three nested
// 32-byte chains (large/medium/small) the way a ripple-carry counter
// composes digits. Internal layout is deliberately not exposed; the only
// contract is zero/inc/inc_by/compare, per spec.md §4.2.
package ratchet

import (
	"bytes"
	"crypto/sha256"
)

// steps-per-level: advancing 256 small steps rolls the medium chain once;
// advancing 256 medium steps rolls the large chain once.
const radix = 256

func hash(tag string, b []byte) [32]byte {
	h := sha256.New()
	h.Write([]byte(tag))
	h.Write(b)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Ratchet is an opaque, comparable hash-chain state.
type Ratchet struct {
	large  [32]byte
	medium [32]byte
	small  [32]byte
	// smallCounter and mediumCounter track offsets within the current
	// medium/large epoch so Compare can report step distance cheaply when
	// both ratchets share an epoch ancestor.
	smallCounter  uint32
	mediumCounter uint32
}

// Zero derives the initial ratchet state from a 32-byte seed, the root of
// the hash chain for a freshly created private node.
func Zero(seed [32]byte) Ratchet {
	large := hash("wnfs/ratchet/large", seed[:])
	medium := hash("wnfs/ratchet/medium", large[:])
	small := hash("wnfs/ratchet/small", medium[:])
	return Ratchet{large: large, medium: medium, small: small}
}

func rollSmall(medium [32]byte, small [32]byte) [32]byte {
	return hash("wnfs/ratchet/small", append(append([]byte{}, medium[:]...), small[:]...))
}

// Inc advances the ratchet by exactly one step.
func (r *Ratchet) Inc() {
	r.smallCounter++
	if r.smallCounter == radix {
		r.smallCounter = 0
		r.mediumCounter++
		r.medium = hash("wnfs/ratchet/medium", r.medium[:])
		if r.mediumCounter == radix {
			r.mediumCounter = 0
			r.large = hash("wnfs/ratchet/large", r.large[:])
			r.medium = hash("wnfs/ratchet/medium", r.large[:])
		}
		r.small = hash("wnfs/ratchet/small", r.medium[:])
		return
	}
	r.small = rollSmall(r.medium, r.small)
}

// IncBy advances the ratchet by n steps, doing so one level at a time
// rather than n individual small-steps once a whole medium or large epoch
// can be skipped, which is the whole point of the skip-ratchet: jumping
// forward by n is cheap even for large n.
func (r *Ratchet) IncBy(n uint64) {
	for n > 0 {
		remainingSmall := uint64(radix - r.smallCounter)
		if n < remainingSmall {
			for i := uint64(0); i < n; i++ {
				r.Inc()
			}
			return
		}
		// Intermediate small/medium values never feed the next epoch, so
		// jumping to an epoch's last step and rolling over once lands on
		// the same state as stepping through it.
		remainingMedium := uint64(radix-r.mediumCounter) * radix
		if r.smallCounter == 0 && n >= remainingMedium {
			r.mediumCounter = radix - 1
			n -= remainingMedium
		} else {
			n -= remainingSmall
		}
		r.smallCounter = radix - 1
		r.Inc()
	}
}

// Export returns the 32-byte value used to derive the TemporalKey,
// spec.md §4.2's `ratchet_export()`. The small chain alone uniquely
// identifies a ratchet state because every Inc() recomputes it.
func (r Ratchet) Export() [32]byte {
	return r.small
}

// Equal reports whether two ratchets are at the exact same step.
func (r Ratchet) Equal(other Ratchet) bool {
	return r.large == other.large && r.medium == other.medium && r.small == other.small
}

// Compare attempts to determine how many steps ahead other is relative to
// r, searching up to budget steps forward from r. Returns (n, true) if
// other == r advanced by n steps (n >= 0); returns (0, false) if no such n
// was found within budget (the pair is either unrelated, or other is
// behind r, or too far ahead to find within budget).
//
// Compare probes forward one Inc at a time, so its cost grows with the
// distance found, or with budget when nothing is found. search_latest
// (spec.md §4.8) does not call it; it probes the forest via IncBy instead.
func Compare(r, other Ratchet, budget uint64) (int64, bool) {
	if r.Equal(other) {
		return 0, true
	}
	probe := r
	for n := uint64(1); n <= budget; n++ {
		probe.Inc()
		if probe.Equal(other) {
			return int64(n), true
		}
	}
	return 0, false
}

// Bytes serializes the full internal state for storage in a
// temporal-key-wrapped header field. Not used for equality; Equal and
// Export are the public contract.
func (r Ratchet) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(r.large[:])
	buf.Write(r.medium[:])
	buf.Write(r.small[:])
	var counters [8]byte
	counters[0] = byte(r.smallCounter)
	counters[1] = byte(r.smallCounter >> 8)
	counters[2] = byte(r.smallCounter >> 16)
	counters[3] = byte(r.smallCounter >> 24)
	counters[4] = byte(r.mediumCounter)
	counters[5] = byte(r.mediumCounter >> 8)
	counters[6] = byte(r.mediumCounter >> 16)
	counters[7] = byte(r.mediumCounter >> 24)
	buf.Write(counters[:])
	return buf.Bytes()
}

// FromBytes reconstructs a Ratchet from Bytes' output. ok is false if b is
// the wrong length, which callers surface as wnfserr.DecodingError.
func FromBytes(b []byte) (Ratchet, bool) {
	if len(b) != 32*3+8 {
		return Ratchet{}, false
	}
	var r Ratchet
	copy(r.large[:], b[0:32])
	copy(r.medium[:], b[32:64])
	copy(r.small[:], b[64:96])
	c := b[96:104]
	r.smallCounter = uint32(c[0]) | uint32(c[1])<<8 | uint32(c[2])<<16 | uint32(c[3])<<24
	r.mediumCounter = uint32(c[4]) | uint32(c[5])<<8 | uint32(c[6])<<16 | uint32(c[7])<<24
	return r, true
}
