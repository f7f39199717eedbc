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

package forest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/steakknife/bloomfilter"

	"github.com/wnfs-go/wnfs/log"
)

// labelHasher adapts a raw 32-byte saturated-name-hash to the 64-bit mini
// hash bloomfilter.Filter expects, the same trick core/state/pruner/bloom.go
// plays to feed trie-node hashes to the same library.
type labelHasher []byte

func (f labelHasher) Write(p []byte) (int, error) { panic("not implemented") }
func (f labelHasher) Sum(b []byte) []byte         { panic("not implemented") }
func (f labelHasher) Reset()                      {}
func (f labelHasher) BlockSize() int               { return 32 }
func (f labelHasher) Size() int                    { return 8 }
func (f labelHasher) Sum64() uint64                { return binary.BigEndian.Uint64(f) }

// LabelBloom is a membership sketch over every saturated-name-hash ever
// written to the forest, consulted by has_value before touching the HAMT.
// Adapted from core/state/pruner/bloom.go's StateBloom: same wrapper-hasher
// trick. False positives fall through to a real lookup; there are never
// false negatives, preserving has_value's contract.
type LabelBloom struct {
	bloom *bloomfilter.Filter
	done  uint32
}

// NewLabelBloom creates a bloom sized for the expected number of distinct
// labels, at the given false-positive collision rate.
func NewLabelBloom(entries uint64, collision float64) (*LabelBloom, error) {
	bloom, err := bloomfilter.NewOptimal(entries, collision)
	if err != nil {
		return nil, err
	}
	log.Info("initialized forest label bloom", "bits", bloom.M())
	return &LabelBloom{bloom: bloom}, nil
}

// Add records a label as present.
func (b *LabelBloom) Add(label [32]byte) {
	b.bloom.Add(labelHasher(label[:]))
}

// MightContain reports whether label may be present. false is authoritative;
// true requires a follow-up HAMT lookup.
func (b *LabelBloom) MightContain(label [32]byte) bool {
	return b.bloom.Contains(labelHasher(label[:]))
}

// Freeze marks the bloom complete, mirroring StateBloom.Commit's
// one-shot semantics without the disk-persistence step (the forest bloom
// is refilled from each bucket as it is loaded rather than serialized).
func (b *LabelBloom) Freeze() {
	atomic.CompareAndSwapUint32(&b.done, 0, 1)
}
