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
	"context"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/log"
)

// spec.md §4.4 is explicit that revisions are never deleted in place: a
// stored forest entry stays reachable by label forever. GC here targets a
// narrower case the spec leaves unaddressed: blocks a caller wrote but
// that never made it into any forest bucket (an aborted write, a
// superseded intermediate chunk from a retried write_chunked). Those are
// true orphans and safe to reclaim, adapted from core/state/pruner.go's
// "mark what's reachable, sweep what isn't" shape, minus its on-disk
// bloom-commit machinery (irrelevant without a multi-gigabyte state trie).

// GCStore is the subset of a backend GC needs: enumerate every stored CID
// and delete ones proven orphaned. blockstore.MemoryStore satisfies this;
// the other backends do not expose Keys or Delete.
type GCStore interface {
	Keys() []blockstore.CID
	Delete(cid blockstore.CID)
}

// GCStats summarizes one GC pass.
type GCStats struct {
	Scanned int
	Deleted int
}

// Sweep deletes every CID in store that is not present in reachable. It
// returns counts rather than acting destructively by default is not an
// option this function offers; callers that want a dry run should compute
// the orphan set themselves via Orphans.
func Sweep(ctx context.Context, store GCStore, reachable map[blockstore.CID]struct{}) GCStats {
	l := log.New("component", "forest/gc")
	var stats GCStats
	for _, cid := range store.Keys() {
		stats.Scanned++
		if _, ok := reachable[cid]; ok {
			continue
		}
		store.Delete(cid)
		stats.Deleted++
	}
	l.Info("forest gc sweep complete", "scanned", stats.Scanned, "deleted", stats.Deleted)
	return stats
}

// Orphans returns every CID in store that reachable does not mark,
// without deleting anything, for callers that want to inspect before
// sweeping.
func Orphans(store GCStore, reachable map[blockstore.CID]struct{}) []blockstore.CID {
	var out []blockstore.CID
	for _, cid := range store.Keys() {
		if _, ok := reachable[cid]; !ok {
			out = append(out, cid)
		}
	}
	return out
}

// ReachableFromForest collects every CID currently recorded in every
// forest bucket, the root of the reachability set a caller builds before
// calling Sweep (it must still add header/content chain CIDs reachable
// from those entries; the forest alone only knows the outer [header_cid,
// content_cid] pairs it stores per label).
func (f *Forest) ReachableFromForest(ctx context.Context) (map[blockstore.CID]struct{}, error) {
	for idx := range f.buckets {
		if err := f.ensureLoaded(ctx, idx); err != nil {
			return nil, err
		}
	}

	f.lock.RLock()
	defer f.lock.RUnlock()

	out := make(map[blockstore.CID]struct{})
	for idx := range f.buckets {
		for _, s := range f.buckets[idx] {
			for v := range s.Iter() {
				out[v.(blockstore.CID)] = struct{}{}
			}
		}
	}
	return out, nil
}
