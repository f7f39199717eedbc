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
	"github.com/wnfs-go/wnfs/crypto/namefilter"
	"github.com/wnfs-go/wnfs/forest"
	"github.com/wnfs-go/wnfs/privatecbor"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// Node is either a *File or a *Directory: the two materialised shapes a
// Link can resolve to, per spec.md §3/§4.5/§4.6.
type Node interface {
	// GetHeader returns the node's header.
	GetHeader() Header
	// PersistedAs returns the content CID this handle was last stored or
	// loaded under (persisted_as), and false if it has none, in which case
	// PrepareNextRevision returns the node in place instead of cloning it.
	PersistedAs() (blockstore.CID, bool)
	// Store persists the node into forest/store and returns a Ref to the
	// written revision.
	Store(ctx context.Context, f *forest.Forest, store blockstore.Store) (Ref, error)
	// IsDirectory reports whether this node is a Directory.
	IsDirectory() bool
}

// AsDirectory type-asserts n to *Directory, returning ok=false if n is a file.
func AsDirectory(n Node) (*Directory, bool) {
	d, ok := n.(*Directory)
	return d, ok
}

// AsFile type-asserts n to *File, returning ok=false if n is a directory.
func AsFile(n Node) (*File, bool) {
	f, ok := n.(*File)
	return f, ok
}

// ErrRootNotADirectory is returned by callers that mount a capability and
// find it names a file rather than a directory.
var ErrRootNotADirectory = wnfserr.New(wnfserr.NotADirectory, "root capability does not name a directory")

// ErrPathNotFound is returned by callers that walk a path to a directory
// and land on a file or a missing entry instead.
var ErrPathNotFound = wnfserr.New(wnfserr.NotFound, "path does not resolve to a directory")

// ResolveNode is loadNode's exported counterpart, for callers (wnfs.Mount)
// that hold a Ref without a Link wrapping it.
func ResolveNode(ctx context.Context, f *forest.Forest, store blockstore.Store, ref Ref) (Node, error) {
	return loadNode(ctx, f, store, ref)
}

const (
	contentTypeDir  = "dir"
	contentTypeFile = "file"
)

// contentEnvelope is the plaintext shape of a node's decrypted content
// block: a type tag so loadNode knows which concrete struct Payload
// decodes into, per spec.md §6's dir/file block variants, plus the
// (major, minor, patch) this block was written with, per spec.md §4.5/§6:
// "loaders must fail UnexpectedVersion on an unsupported (major, minor)".
type contentEnvelope struct {
	Version privatecbor.Version `cbor:"version"`
	Type    string              `cbor:"type"`
	Payload []byte              `cbor:"payload"`
}

// revisionRecord is the small, unencrypted block a forest label points at:
// it just names the header block and the (separately encrypted) content
// block for one revision. It doesn't need encryption itself since a CID is
// already just a content hash, revealing nothing about plaintext.
type revisionRecord struct {
	HeaderCID  blockstore.CID `cbor:"header_cid"`
	ContentCID blockstore.CID `cbor:"content_cid"`
}

// loadNode is ResolveNode's decryption path: given a capability (Ref), it
// fetches the revision record, decrypts the header with ref's TemporalKey,
// decrypts the content block with the derived SnapshotKey, and constructs
// the concrete *Directory or *File the envelope's type tag names.
func loadNode(ctx context.Context, f *forest.Forest, store blockstore.Store, ref Ref) (Node, error) {
	rrBytes, err := store.Get(ctx, ref.ContentCID)
	if err != nil {
		return nil, err
	}
	var rr revisionRecord
	if err := privatecbor.Unmarshal(rrBytes, &rr); err != nil {
		return nil, err
	}

	header, err := LoadTemporal(ctx, store, rr.HeaderCID, ref.TemporalKey)
	if err != nil {
		return nil, err
	}

	cipher, err := store.Get(ctx, rr.ContentCID)
	if err != nil {
		return nil, err
	}
	snapshotKey := keys.DeriveSnapshotKey(ref.TemporalKey)
	plain, err := keys.ContentDecrypt(snapshotKey, cipher)
	if err != nil {
		return nil, err
	}

	var env contentEnvelope
	if err := privatecbor.Unmarshal(plain, &env); err != nil {
		return nil, err
	}
	if err := env.Version.CheckSupported(); err != nil {
		return nil, err
	}

	switch env.Type {
	case contentTypeDir:
		var dc directoryContent
		if err := privatecbor.Unmarshal(env.Payload, &dc); err != nil {
			return nil, err
		}
		entries := make(map[string]*Link, len(dc.Entries))
		for name, s := range dc.Entries {
			childRef, err := unwrapRef(s, header.DeriveTemporalKey())
			if err != nil {
				return nil, err
			}
			entries[name] = LinkFromRef(childRef)
		}
		contentCID := rr.ContentCID
		return &Directory{
			header:      header,
			persistedAs: &contentCID,
			previous:    dc.Previous,
			metadata:    dc.Metadata,
			entries:     entries,
		}, nil
	case contentTypeFile:
		var fc fileContent
		if err := privatecbor.Unmarshal(env.Payload, &fc); err != nil {
			return nil, err
		}
		contentCID := rr.ContentCID
		return &File{
			header:      header,
			persistedAs: &contentCID,
			previous:    fc.Previous,
			metadata:    fc.Metadata,
			content:     fc.Content,
		}, nil
	default:
		return nil, wnfserr.New(wnfserr.DecodingError, "unknown private content type: "+env.Type)
	}
}

// CloneNodeForAncestry is UpdateAncestry for the whole subtree rooted at n:
// bare_name must stay a superset chain from root to leaf (spec.md §4.1's
// namefilter invariant), so reparenting a node means walking every
// descendant and recomputing its bare_name too, not just the root being
// moved. inumber and ratchet carry over unchanged; persisted_as is cleared
// since the node's old content block was encrypted/labelled under the old
// bare_name and is no longer the right home for it.
func CloneNodeForAncestry(ctx context.Context, n Node, newParentBareName namefilter.Filter, f *forest.Forest, store blockstore.Store) (Node, error) {
	switch v := n.(type) {
	case *Directory:
		clone := &Directory{
			header:   v.header,
			metadata: v.metadata,
			previous: append([]PreviousLink(nil), v.previous...),
			entries:  make(map[string]*Link, len(v.entries)),
		}
		clone.header.UpdateBareName(newParentBareName)
		for name, link := range v.entries {
			child, err := link.ResolveNode(ctx, f, store)
			if err != nil {
				return nil, err
			}
			newChild, err := CloneNodeForAncestry(ctx, child, clone.header.BareName, f, store)
			if err != nil {
				return nil, err
			}
			clone.entries[name] = LinkFromNode(newChild)
		}
		return clone, nil
	case *File:
		clone := &File{
			header:   v.header,
			metadata: v.metadata,
			previous: append([]PreviousLink(nil), v.previous...),
			content:  v.content,
		}
		clone.header.UpdateBareName(newParentBareName)
		return clone, nil
	default:
		return nil, wnfserr.New(wnfserr.DecodingError, "unknown node type")
	}
}
