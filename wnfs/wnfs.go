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

// Package wnfs is the root convenience API: it ties a private forest, a
// block store, and a mounted private directory together into a single
// filesystem handle, the way the teacher's top-level package ties a
// blockchain, a transaction pool, and a miner together behind one Ethereum
// struct. Every path-mutating method here just threads its own root
// pointer through the corresponding private.Directory method and swaps
// its own handle on success.
package wnfs

import (
	"context"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/crypto/namefilter"
	"github.com/wnfs-go/wnfs/forest"
	"github.com/wnfs-go/wnfs/log"
	"github.com/wnfs-go/wnfs/private"
)

var fsLog = log.New("component", "wnfs")

// FS is a mounted private filesystem: a root directory backed by a forest
// and a block store.
type FS struct {
	root   *private.Directory
	forest *forest.Forest
	store  blockstore.Store
}

// New mounts an empty filesystem over store.
func New(store blockstore.Store) (*FS, error) {
	root, err := private.NewDirectory(namefilter.Empty(), 0)
	if err != nil {
		return nil, err
	}
	return &FS{root: root, forest: forest.New(store), store: store}, nil
}

// Mount opens an existing filesystem by its root capability.
func Mount(ctx context.Context, store blockstore.Store, f *forest.Forest, rootRef private.Ref) (*FS, error) {
	node, err := private.ResolveNode(ctx, f, store, rootRef)
	if err != nil {
		return nil, err
	}
	root, ok := private.AsDirectory(node)
	if !ok {
		return nil, wnfsNotADirectoryErr()
	}
	return &FS{root: root, forest: f, store: store}, nil
}

func wnfsNotADirectoryErr() error {
	return private.ErrRootNotADirectory
}

// Forest returns the filesystem's backing forest, e.g. for Merge or GC.
func (fs *FS) Forest() *forest.Forest { return fs.forest }

// Store returns the filesystem's backing block store.
func (fs *FS) Store() blockstore.Store { return fs.store }

// Root returns the current root directory handle.
func (fs *FS) Root() *private.Directory { return fs.root }

// Mkdir creates every missing directory along path.
func (fs *FS) Mkdir(ctx context.Context, path []string, now int64) error {
	root, err := fs.root.Mkdir(ctx, path, now, fs.forest, fs.store)
	if err != nil {
		return err
	}
	fs.root = root
	return nil
}

// Write stores data at path, creating intervening directories.
func (fs *FS) Write(ctx context.Context, path []string, now int64, data []byte) error {
	root, err := fs.root.Write(ctx, path, now, data, fs.forest, fs.store)
	if err != nil {
		return err
	}
	fs.root = root
	return nil
}

// Read returns the bytes stored at path.
func (fs *FS) Read(ctx context.Context, path []string, searchLatest bool) ([]byte, error) {
	return fs.root.Read(ctx, path, searchLatest, fs.forest, fs.store)
}

// Ls lists the directory at path.
func (fs *FS) Ls(ctx context.Context, path []string, searchLatest bool) ([]private.DirEntry, error) {
	dir, status, _, err := fs.root.GetLeafDir(ctx, path, searchLatest, fs.forest, fs.store)
	if err != nil {
		return nil, err
	}
	if status != private.WalkFound {
		return nil, private.ErrPathNotFound
	}
	return dir.LsDetailed(ctx, fs.forest, fs.store)
}

// Rm removes the entry at path.
func (fs *FS) Rm(ctx context.Context, path []string, now int64) error {
	root, err := fs.root.Rm(ctx, path, now, fs.forest, fs.store)
	if err != nil {
		return err
	}
	fs.root = root
	return nil
}

// Cp copies srcPath to dstPath, recomputing the copied subtree's ancestry.
func (fs *FS) Cp(ctx context.Context, srcPath, dstPath []string, now int64, searchLatest bool) error {
	root, err := fs.root.Cp(ctx, srcPath, dstPath, now, searchLatest, fs.forest, fs.store)
	if err != nil {
		return err
	}
	fs.root = root
	return nil
}

// Mv moves srcPath to dstPath.
func (fs *FS) Mv(ctx context.Context, srcPath, dstPath []string, now int64, searchLatest bool) error {
	root, err := fs.root.BasicMv(ctx, srcPath, dstPath, now, searchLatest, fs.forest, fs.store)
	if err != nil {
		return err
	}
	fs.root = root
	return nil
}

// WriteSymlink creates a symlink at path pointing at target.
func (fs *FS) WriteSymlink(ctx context.Context, path []string, now int64, target string) error {
	root, err := fs.root.WriteSymlink(ctx, path, now, target, fs.forest, fs.store)
	if err != nil {
		return err
	}
	fs.root = root
	return nil
}

// Commit persists the current root and returns a capability for it, the
// handle a caller re-mounts with later (see Mount) or hands to another
// principal.
func (fs *FS) Commit(ctx context.Context) (private.Ref, error) {
	ref, err := fs.root.Store(ctx, fs.forest, fs.store)
	if err != nil {
		return private.Ref{}, err
	}
	fsLog.Debug("committed filesystem root", "saturated_name_hash", ref.SaturatedNameHash)
	return ref, nil
}

// History returns up to limit previous revisions of the file at path,
// most recent first, by walking each node's previous-links chain.
func (fs *FS) History(ctx context.Context, path []string, limit int) ([][]byte, error) {
	dirPath, name := path[:len(path)-1], path[len(path)-1]
	parent, status, _, err := fs.root.GetLeafDir(ctx, dirPath, false, fs.forest, fs.store)
	if err != nil {
		return nil, err
	}
	if status != private.WalkFound {
		return nil, private.ErrPathNotFound
	}
	return private.FileHistory(ctx, parent, name, limit, fs.forest, fs.store)
}
