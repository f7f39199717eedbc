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

// Package forest implements the Private Forest: a hash-array-mapped trie
// from saturated-name-hash to a set of ciphertext CIDs, per spec.md §4.4.
// The trie buckets are persisted as one dag-cbor block per bucket, sharded
// by the label's first byte (256 buckets), which keeps any single forest
// block small while still giving O(1) amortized bucket lookups — a
// concession from a "real" HAMT's recursive branching, documented in
// DESIGN.md as a deliberate simplification the spec's contract
// (put_encrypted/get_encrypted/has_value) doesn't constrain away.
package forest

import (
	"context"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/log"
	"github.com/wnfs-go/wnfs/privatecbor"
)

const numBuckets = 256

// Forest is the in-memory, lazily-loaded view of the HAMT. Buckets are
// fetched from the store on first touch and held for the lifetime of the
// Forest value.
type Forest struct {
	store Store

	lock       sync.RWMutex
	buckets    [numBuckets]map[[32]byte]mapset.Set
	bucketCIDs [numBuckets]*blockstore.CID
	loaded     [numBuckets]bool
	bloom      *LabelBloom

	log log.Logger
}

// Store is the subset of blockstore.Store the forest needs; named
// separately so forest package tests can pass a minimal fake.
type Store interface {
	Put(ctx context.Context, codec blockstore.Codec, data []byte) (blockstore.CID, error)
	Get(ctx context.Context, cid blockstore.CID) ([]byte, error)
	Has(ctx context.Context, cid blockstore.CID) (bool, error)
}

// New returns an empty forest backed by store.
func New(store Store) *Forest {
	f := &Forest{store: store, log: log.New("component", "forest")}
	for i := range f.buckets {
		f.buckets[i] = make(map[[32]byte]mapset.Set)
	}
	bloom, err := NewLabelBloom(1<<16, 0.001)
	if err != nil {
		f.log.Warn("label bloom disabled", "err", err)
	} else {
		f.bloom = bloom
	}
	return f
}

func bucketIndex(label [32]byte) int { return int(label[0]) }

type bucketEntry struct {
	Label [32]byte         `cbor:"label"`
	CIDs  []blockstore.CID `cbor:"cids"`
}

func (f *Forest) ensureLoaded(ctx context.Context, idx int) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.loaded[idx] || f.bucketCIDs[idx] == nil {
		f.loaded[idx] = true
		return nil
	}
	data, err := f.store.Get(ctx, *f.bucketCIDs[idx])
	if err != nil {
		return err
	}
	var entries []bucketEntry
	if err := privatecbor.Unmarshal(data, &entries); err != nil {
		return err
	}
	for _, e := range entries {
		s := mapset.NewThreadUnsafeSet()
		for _, c := range e.CIDs {
			s.Add(c)
		}
		f.buckets[idx][e.Label] = s
		if f.bloom != nil {
			f.bloom.Add(e.Label)
		}
	}
	f.loaded[idx] = true
	return nil
}

// PutEncrypted unions cids into the entry at label, creating it if absent.
// Per spec.md §4.4 the set converges: multiple writers at the same label
// never overwrite each other's revisions.
func (f *Forest) PutEncrypted(ctx context.Context, label [32]byte, cids []blockstore.CID) error {
	idx := bucketIndex(label)
	if err := f.ensureLoaded(ctx, idx); err != nil {
		return err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	s, ok := f.buckets[idx][label]
	if !ok {
		s = mapset.NewThreadUnsafeSet()
		f.buckets[idx][label] = s
	}
	for _, c := range cids {
		s.Add(c)
	}
	if f.bloom != nil {
		f.bloom.Add(label)
	}
	f.log.Debug("put_encrypted", "label", label, "set_size", s.Cardinality())
	return nil
}

// GetEncrypted returns the sorted (for determinism) set of CIDs recorded
// at label, or nil if the label has never been written.
func (f *Forest) GetEncrypted(ctx context.Context, label [32]byte) ([]blockstore.CID, error) {
	idx := bucketIndex(label)
	if err := f.ensureLoaded(ctx, idx); err != nil {
		return nil, err
	}
	f.lock.RLock()
	defer f.lock.RUnlock()
	s, ok := f.buckets[idx][label]
	if !ok {
		return nil, nil
	}
	out := make([]blockstore.CID, 0, s.Cardinality())
	for v := range s.Iter() {
		out = append(out, v.(blockstore.CID))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

// HasValue is a cheap existence check. The bloom filter only holds labels
// from buckets already loaded, so it is consulted first only once the
// label's bucket is loaded; otherwise the bucket itself is looked up.
func (f *Forest) HasValue(ctx context.Context, label [32]byte) (bool, error) {
	idx := bucketIndex(label)
	f.lock.RLock()
	loaded := f.loaded[idx]
	f.lock.RUnlock()
	if loaded && f.bloom != nil && !f.bloom.MightContain(label) {
		return false, nil
	}
	cids, err := f.GetEncrypted(ctx, label)
	if err != nil {
		return false, err
	}
	return len(cids) > 0, nil
}

// Persist writes every touched bucket to the store as its own dag-cbor
// block and returns the root CID: a small map from bucket index to bucket
// CID, the forest's own persisted representation per spec.md §4.4 ("the
// HAMT is itself persisted into the block store").
func (f *Forest) Persist(ctx context.Context) (blockstore.CID, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	root := make(map[int]blockstore.CID)
	for idx := range f.buckets {
		if len(f.buckets[idx]) == 0 {
			if f.bucketCIDs[idx] != nil {
				root[idx] = *f.bucketCIDs[idx]
			}
			continue
		}
		entries := make([]bucketEntry, 0, len(f.buckets[idx]))
		for label, s := range f.buckets[idx] {
			cids := make([]blockstore.CID, 0, s.Cardinality())
			for v := range s.Iter() {
				cids = append(cids, v.(blockstore.CID))
			}
			sort.Slice(cids, func(i, j int) bool { return cids[i].String() < cids[j].String() })
			entries = append(entries, bucketEntry{Label: label, CIDs: cids})
		}
		data, err := privatecbor.Marshal(entries)
		if err != nil {
			return blockstore.CID{}, err
		}
		cid, err := f.store.Put(ctx, blockstore.CodecCBOR, data)
		if err != nil {
			return blockstore.CID{}, err
		}
		f.bucketCIDs[idx] = &cid
		root[idx] = cid
	}

	rootData, err := privatecbor.Marshal(root)
	if err != nil {
		return blockstore.CID{}, err
	}
	return f.store.Put(ctx, blockstore.CodecCBOR, rootData)
}

// Load reconstructs a Forest's bucket-CID index from a root CID previously
// returned by Persist. Buckets are fetched lazily from there.
func Load(ctx context.Context, store Store, rootCID blockstore.CID) (*Forest, error) {
	f := New(store)
	data, err := store.Get(ctx, rootCID)
	if err != nil {
		return nil, err
	}
	var root map[int]blockstore.CID
	if err := privatecbor.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	for idx, cid := range root {
		c := cid
		f.bucketCIDs[idx] = &c
	}
	return f, nil
}
