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
	"github.com/wnfs-go/wnfs/forest"
)

// Link lazily resolves to a Node, a Ref, or both, per spec.md §4.7: a
// directory entry may hold only a ciphertext reference (never
// materialised), only a decrypted node (not yet re-persisted), or both
// once resolution has happened once.
type Link struct {
	ref  *Ref
	node Node
}

// LinkFromRef builds an unresolved Link from a ref.
func LinkFromRef(ref Ref) *Link {
	return &Link{ref: &ref}
}

// LinkFromNode builds a Link directly from an already-materialised node,
// used right after creating a brand-new child.
func LinkFromNode(node Node) *Link {
	return &Link{node: node}
}

// ResolveNode returns the materialised Node, decrypting and fetching it
// from the forest/store on first call if only a Ref is held.
func (l *Link) ResolveNode(ctx context.Context, f *forest.Forest, store blockstore.Store) (Node, error) {
	if l.node != nil {
		return l.node, nil
	}
	node, err := loadNode(ctx, f, store, *l.ref)
	if err != nil {
		return nil, err
	}
	l.node = node
	return node, nil
}

// ResolveRef returns a Ref for this link, calling Store on the
// materialised node if one was never previously persisted.
func (l *Link) ResolveRef(ctx context.Context, f *forest.Forest, store blockstore.Store) (Ref, error) {
	if l.ref != nil {
		return *l.ref, nil
	}
	ref, err := l.node.Store(ctx, f, store)
	if err != nil {
		return Ref{}, err
	}
	l.ref = &ref
	return ref, nil
}

// ResolveOwnedNode consumes the link, returning its materialised node, for
// callers that detach an entry outright rather than leaving a resolvable
// handle behind. Rm deletes entries without resolving them.
func (l *Link) ResolveOwnedNode(ctx context.Context, f *forest.Forest, store blockstore.Store) (Node, error) {
	node, err := l.ResolveNode(ctx, f, store)
	if err != nil {
		return nil, err
	}
	l.node = nil
	l.ref = nil
	return node, nil
}

// HasRef reports whether the link already carries a Ref without forcing
// resolution.
func (l *Link) HasRef() bool { return l.ref != nil }
