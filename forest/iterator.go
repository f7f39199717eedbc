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
	"bytes"
	"context"
	"sort"
)

// LabelIterator walks a sorted stream of saturated-name-hash labels,
// mirroring core/state/snapshot/difflayer.go's Iterator interface for
// walking a diff layer's sorted account list.
type LabelIterator interface {
	Next() bool
	Label() [32]byte
}

type sliceIterator struct {
	labels []([32]byte)
	index  int
}

func (it *sliceIterator) Next() bool {
	it.index++
	return it.index < len(it.labels)
}

func (it *sliceIterator) Label() [32]byte {
	if it.index < 0 || it.index >= len(it.labels) {
		return [32]byte{}
	}
	return it.labels[it.index]
}

// newSliceIterator builds a LabelIterator over f's currently loaded
// labels in sorted order, analogous to diffLayer.newIterator() building
// one over AccountList().
func newSliceIterator(labels [][32]byte) LabelIterator {
	sort.Slice(labels, func(i, j int) bool { return bytes.Compare(labels[i][:], labels[j][:]) < 0 })
	return &sliceIterator{labels: labels, index: -1}
}

// binaryLabelIterator merges two sorted LabelIterators into one sorted,
// deduplicated stream, adapted directly from difflayer.go's binaryIterator:
// the same three-way compare-and-advance shape, generalized from
// common.Hash to the forest's [32]byte label type.
type binaryLabelIterator struct {
	a, b       LabelIterator
	aDone, bDone bool
	cur        [32]byte
}

// mergeLabels returns a LabelIterator over the union of a and b's labels,
// in sorted order, each label emitted exactly once even if present in
// both — used when reconciling two forest snapshots (e.g. a local and a
// remote copy before a push), leaving the actual value-set union to
// PutEncrypted's set semantics once each label is revisited.
func mergeLabels(a, b LabelIterator) LabelIterator {
	it := &binaryLabelIterator{a: a, b: b}
	it.aDone = !it.a.Next()
	it.bDone = !it.b.Next()
	return it
}

func (it *binaryLabelIterator) Next() bool {
	if it.aDone && it.bDone {
		return false
	}
	nextB := it.b.Label()
first:
	nextA := it.a.Label()
	if it.aDone {
		it.bDone = !it.b.Next()
		it.cur = nextB
		return true
	}
	if it.bDone {
		it.aDone = !it.a.Next()
		it.cur = nextA
		return true
	}
	if diff := bytes.Compare(nextA[:], nextB[:]); diff < 0 {
		it.aDone = !it.a.Next()
		it.cur = nextA
		return true
	} else if diff == 0 {
		it.aDone = !it.a.Next()
		goto first
	}
	it.bDone = !it.b.Next()
	it.cur = nextB
	return true
}

func (it *binaryLabelIterator) Label() [32]byte { return it.cur }

// Merge unions every label (and, per label, every CID) present in other
// into f, the explicit reconciliation step spec.md's Open Question 1
// leaves to callers rather than performing automatically (see SPEC_FULL.md).
func (f *Forest) Merge(ctx context.Context, other *Forest) error {
	fLabels, err := f.allLabels(ctx)
	if err != nil {
		return err
	}
	oLabels, err := other.allLabels(ctx)
	if err != nil {
		return err
	}

	it := mergeLabels(newSliceIterator(fLabels), newSliceIterator(oLabels))
	for it.Next() {
		label := it.Label()
		cids, err := other.GetEncrypted(ctx, label)
		if err != nil {
			return err
		}
		if len(cids) == 0 {
			continue
		}
		if err := f.PutEncrypted(ctx, label, cids); err != nil {
			return err
		}
	}
	return nil
}

func (f *Forest) allLabels(ctx context.Context) ([][32]byte, error) {
	for idx := range f.buckets {
		if err := f.ensureLoaded(ctx, idx); err != nil {
			return nil, err
		}
	}
	f.lock.RLock()
	defer f.lock.RUnlock()
	var out [][32]byte
	for idx := range f.buckets {
		for label := range f.buckets[idx] {
			out = append(out, label)
		}
	}
	return out, nil
}
