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

	"golang.org/x/text/unicode/norm"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/forest"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// WalkStatus reports how far a path walk got.
type WalkStatus int

const (
	// WalkFound means every segment resolved to a directory.
	WalkFound WalkStatus = iota
	// WalkNotADirectory means a non-final segment resolved to a file.
	WalkNotADirectory
	// WalkMissing means some segment had no matching entry.
	WalkMissing
)

// NormalizePath applies NFC normalization to every path segment, so that
// "é" typed as a precomposed or decomposed sequence always names the same
// entry.
func NormalizePath(path []string) []string {
	out := make([]string, len(path))
	for i, seg := range path {
		out[i] = norm.NFC.String(seg)
	}
	return out
}

// resolveLatest replaces d with the newest revision the forest knows of, if
// searchLatest is set and a newer one exists.
func (d *Directory) resolveLatest(ctx context.Context, f *forest.Forest, store blockstore.Store, searchLatest bool) (*Directory, error) {
	if !searchLatest {
		return d, nil
	}
	_, ref, found, err := SearchLatest(ctx, f, d.header)
	if err != nil {
		return nil, err
	}
	if !found {
		return d, nil
	}
	node, err := loadNode(ctx, f, store, ref)
	if err != nil {
		return nil, err
	}
	dir, ok := AsDirectory(node)
	if !ok {
		return nil, wnfserr.New(wnfserr.NotADirectory, "latest revision at this path is a file")
	}
	return dir, nil
}

// GetLeafDir walks path from d, optionally advancing each directory to its
// latest known revision along the way, per spec.md §4.8/§4.9.
func (d *Directory) GetLeafDir(ctx context.Context, path []string, searchLatest bool, f *forest.Forest, store blockstore.Store) (*Directory, WalkStatus, int, error) {
	path = NormalizePath(path)
	cur, err := d.resolveLatest(ctx, f, store, searchLatest)
	if err != nil {
		return nil, WalkMissing, 0, err
	}
	for depth, seg := range path {
		link, ok := cur.entries[seg]
		if !ok {
			return cur, WalkMissing, depth, nil
		}
		node, err := link.ResolveNode(ctx, f, store)
		if err != nil {
			return nil, WalkMissing, depth, err
		}
		dir, ok := AsDirectory(node)
		if !ok {
			return cur, WalkNotADirectory, depth, nil
		}
		dir, err = dir.resolveLatest(ctx, f, store, searchLatest)
		if err != nil {
			return nil, WalkMissing, depth, err
		}
		cur = dir
	}
	return cur, WalkFound, len(path), nil
}

// prepareMutPath walks path from a PrepareNextRevision'd clone of d,
// cloning (or, if create is set, creating) each directory along the way so
// that every directory from root to leaf is a freshly writable revision.
// It returns both the new root (what the caller should keep as its handle
// to the tree) and the leaf directory path resolved to.
func (d *Directory) prepareMutPath(ctx context.Context, path []string, create bool, now int64, f *forest.Forest, store blockstore.Store) (root *Directory, leaf *Directory, err error) {
	root, err = d.PrepareNextRevision()
	if err != nil {
		return nil, nil, err
	}
	cur := root
	for _, seg := range path {
		link, ok := cur.entries[seg]
		var child *Directory
		if ok {
			node, err := link.ResolveNode(ctx, f, store)
			if err != nil {
				return nil, nil, err
			}
			dir, ok := AsDirectory(node)
			if !ok {
				return nil, nil, wnfserr.New(wnfserr.NotADirectory, seg)
			}
			child, err = dir.PrepareNextRevision()
			if err != nil {
				return nil, nil, err
			}
		} else if create {
			child, err = NewDirectory(cur.header.BareName, now)
			if err != nil {
				return nil, nil, err
			}
		} else {
			return nil, nil, wnfserr.New(wnfserr.NotFound, seg)
		}
		cur.entries[seg] = LinkFromNode(child)
		cur = child
	}
	return root, cur, nil
}

// GetLeafDirMut is prepareMutPath without directory creation: it fails if
// any segment along path is absent.
func (d *Directory) GetLeafDirMut(ctx context.Context, path []string, now int64, f *forest.Forest, store blockstore.Store) (*Directory, *Directory, error) {
	return d.prepareMutPath(ctx, NormalizePath(path), false, now, f, store)
}

// GetOrCreateLeafDirMut is prepareMutPath with directory creation enabled.
func (d *Directory) GetOrCreateLeafDirMut(ctx context.Context, path []string, now int64, f *forest.Forest, store blockstore.Store) (*Directory, *Directory, error) {
	return d.prepareMutPath(ctx, NormalizePath(path), true, now, f, store)
}
