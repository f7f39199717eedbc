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

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/crypto/keys"
	"github.com/wnfs-go/wnfs/forest"
	"github.com/wnfs-go/wnfs/privatecbor"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// FileHistory returns up to limit previous revisions of the file named
// name inside parent, most-recent-first, by walking its previous-links
// chain: each PreviousLink wraps its ancestor's TemporalKey under the
// current revision's, so a holder of the current key can peel back one
// revision at a time without needing a forest/ratchet lookup.
func FileHistory(ctx context.Context, parent *Directory, name string, limit int, f *forest.Forest, store blockstore.Store) ([][]byte, error) {
	link, ok := parent.entries[name]
	if !ok {
		return nil, wnfserr.New(wnfserr.NotFound, name)
	}
	node, err := link.ResolveNode(ctx, f, store)
	if err != nil {
		return nil, err
	}
	file, ok := AsFile(node)
	if !ok {
		return nil, wnfserr.New(wnfserr.NotAFile, name)
	}

	out := make([][]byte, 0, limit)
	currentKey := file.header.DeriveTemporalKey()
	previous := file.previous

	for len(out) < limit && len(previous) > 0 {
		step := previous[len(previous)-1]
		ancestorKey, err := keys.UnwrapChildTemporalKey(currentKey, step.WrappedTemporalKey)
		if err != nil {
			return out, err
		}
		cipher, err := store.Get(ctx, step.PreviousContentCID)
		if err != nil {
			return out, err
		}
		plain, err := keys.ContentDecrypt(keys.DeriveSnapshotKey(ancestorKey), cipher)
		if err != nil {
			return out, err
		}
		var env contentEnvelope
		if err := privatecbor.Unmarshal(plain, &env); err != nil {
			return out, err
		}
		if env.Type != contentTypeFile {
			break
		}
		var fc fileContent
		if err := privatecbor.Unmarshal(env.Payload, &fc); err != nil {
			return out, err
		}
		ancestor := File{content: fc.Content}
		data, err := ancestor.GetContent(ctx, store)
		if err != nil {
			return out, err
		}
		out = append(out, data)

		currentKey = ancestorKey
		previous = fc.Previous
	}
	return out, nil
}
