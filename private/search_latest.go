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

package private

import (
	"context"

	"github.com/wnfs-go/wnfs/crypto/keys"
	"github.com/wnfs-go/wnfs/forest"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// SearchLatest implements spec.md §4.8: find the greatest ratchet offset i
// (i >= 1) such that header's ratchet advanced by i is still recorded in
// the forest, using an exponential probe to bound i followed by a binary
// search to pin it down exactly. Returns found=false if even one step
// ahead is absent, meaning header's own revision is already the newest the
// forest knows about.
func SearchLatest(ctx context.Context, f *forest.Forest, header Header) (Header, Ref, bool, error) {
	present := func(steps uint64) (bool, error) {
		probe := header.Ratchet
		probe.IncBy(steps)
		tk := keys.DeriveTemporalKey(probe)
		label := SaturatedNameHashFor(header.BareName, tk)
		return f.HasValue(ctx, label)
	}

	var lastHit uint64
	hit := false
	i := uint64(1)
	for {
		ok, err := present(i)
		if err != nil {
			return Header{}, Ref{}, false, err
		}
		if !ok {
			break
		}
		hit = true
		lastHit = i
		if i > (uint64(1) << 62) {
			break
		}
		i *= 2
	}
	if !hit {
		return header, Ref{}, false, nil
	}

	lo, hi := lastHit, i
	for lo+1 < hi {
		mid := lo + (hi-lo)/2
		ok, err := present(mid)
		if err != nil {
			return Header{}, Ref{}, false, err
		}
		if ok {
			lo = mid
		} else {
			hi = mid
		}
	}

	latestRatchet := header.Ratchet
	latestRatchet.IncBy(lo)
	tk := keys.DeriveTemporalKey(latestRatchet)
	label := SaturatedNameHashFor(header.BareName, tk)
	cids, err := f.GetEncrypted(ctx, label)
	if err != nil {
		return Header{}, Ref{}, false, err
	}
	if len(cids) == 0 {
		return Header{}, Ref{}, false, wnfserr.New(wnfserr.NotFound, "search_latest: label vanished mid-search")
	}

	latestHeader := header
	latestHeader.Ratchet = latestRatchet
	ref := Ref{SaturatedNameHash: label, TemporalKey: tk, ContentCID: cids[0]}
	return latestHeader, ref, true, nil
}
