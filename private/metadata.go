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

import "github.com/wnfs-go/wnfs/blockstore"

// Metadata carries the small amount of non-confidential-shape bookkeeping
// every node's content block stores alongside its entries/content, per
// spec.md §3's PrivateFileContent/PrivateDirectoryContent.
type Metadata struct {
	UnixTimeMtime int64  `cbor:"mtime"`
	Symlink       string `cbor:"symlink,omitempty"`
}

// PreviousLink records one ancestor revision: its content CID (plaintext —
// a CID is just a content hash and reveals nothing) plus that ancestor's
// own TemporalKey, wrapped under the current revision's TemporalKey the
// same way a directory wraps a child's TemporalKey (see wrapRef). A
// history walker holding the current TemporalKey can therefore unwrap the
// ancestor's key, decrypt its content block, and recurse using its
// previous-links in turn. SkipDistance supports a skip-list-style jump
// rather than a strict linked list.
type PreviousLink struct {
	SkipDistance       int            `cbor:"skip_distance"`
	PreviousContentCID blockstore.CID `cbor:"previous_content_cid"`
	WrappedTemporalKey []byte         `cbor:"wrapped_temporal_key"`
}
