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

// Package public implements the unencrypted mirror tree spec.md §2
// describes alongside the private filesystem: plain content-addressed
// directories and files sharing the private tree's canonical CBOR codec
// (privatecbor) but none of its namefilter/ratchet machinery, since
// nothing here needs to be confidential.
package public

import (
	"context"
	"sort"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/common"
	"github.com/wnfs-go/wnfs/log"
	"github.com/wnfs-go/wnfs/privatecbor"
	"github.com/wnfs-go/wnfs/wnfserr"
)

var nodeLog = log.New("component", "public")

// Metadata is the small bookkeeping record every public node carries.
type Metadata struct {
	UnixTimeMtime int64 `cbor:"mtime"`
}

// childCID recovers the blockstore.CID a public block is stored under; all
// public blocks are dag-cbor, so only the hash half of the identity needs
// to travel through the entries map.
func childCID(h common.Hash) blockstore.CID {
	return blockstore.CID{Codec: blockstore.CodecCBOR, Hash: [32]byte(h)}
}

type directoryBlock struct {
	Metadata Metadata               `cbor:"metadata"`
	Entries  map[string]common.Hash `cbor:"entries"`
}

type fileBlock struct {
	Metadata Metadata `cbor:"metadata"`
	Content  []byte   `cbor:"content"`
}

// Directory is a plain, unencrypted directory node.
type Directory struct {
	Metadata Metadata
	Entries  map[string]common.Hash
}

// NewDirectory returns an empty directory.
func NewDirectory(now int64) *Directory {
	return &Directory{Metadata: Metadata{UnixTimeMtime: now}, Entries: make(map[string]common.Hash)}
}

// Ls returns child names in sorted order.
func (d *Directory) Ls() []string {
	names := make([]string, 0, len(d.Entries))
	for name := range d.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store persists d (and returns its content hash); children must already
// be stored, since Entries holds only their hashes.
func (d *Directory) Store(ctx context.Context, store blockstore.Store) (common.Hash, error) {
	data, err := privatecbor.Marshal(directoryBlock{Metadata: d.Metadata, Entries: d.Entries})
	if err != nil {
		return common.Hash{}, err
	}
	cid, err := store.Put(ctx, blockstore.CodecCBOR, data)
	if err != nil {
		return common.Hash{}, err
	}
	nodeLog.Debug("stored public directory", "cid", cid)
	return common.BytesToHash(cid.Hash[:]), nil
}

// LoadDirectory fetches and decodes the directory stored at h.
func LoadDirectory(ctx context.Context, store blockstore.Store, h common.Hash) (*Directory, error) {
	data, err := store.Get(ctx, childCID(h))
	if err != nil {
		return nil, err
	}
	var db directoryBlock
	if err := privatecbor.Unmarshal(data, &db); err != nil {
		return nil, err
	}
	if db.Entries == nil {
		db.Entries = make(map[string]common.Hash)
	}
	return &Directory{Metadata: db.Metadata, Entries: db.Entries}, nil
}

// File is a plain, unencrypted file node.
type File struct {
	Metadata Metadata
	Content  []byte
}

// NewFile returns a file holding content.
func NewFile(now int64, content []byte) *File {
	return &File{Metadata: Metadata{UnixTimeMtime: now}, Content: content}
}

// Store persists the file's content block, returning its hash.
func (f *File) Store(ctx context.Context, store blockstore.Store) (common.Hash, error) {
	data, err := privatecbor.Marshal(fileBlock{Metadata: f.Metadata, Content: f.Content})
	if err != nil {
		return common.Hash{}, err
	}
	cid, err := store.Put(ctx, blockstore.CodecCBOR, data)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(cid.Hash[:]), nil
}

// LoadFile fetches and decodes the file stored at h.
func LoadFile(ctx context.Context, store blockstore.Store, h common.Hash) (*File, error) {
	data, err := store.Get(ctx, childCID(h))
	if err != nil {
		return nil, err
	}
	var fb fileBlock
	if err := privatecbor.Unmarshal(data, &fb); err != nil {
		return nil, err
	}
	return &File{Metadata: fb.Metadata, Content: fb.Content}, nil
}

// Mkdir creates every missing directory along path under root, storing
// each touched directory below root and returning the updated root
// directory; root itself is not stored.
func Mkdir(ctx context.Context, store blockstore.Store, root *Directory, path []string, now int64) (*Directory, error) {
	if len(path) == 0 {
		return root, nil
	}
	name, rest := path[0], path[1:]
	var child *Directory
	if h, ok := root.Entries[name]; ok {
		existing, err := LoadDirectory(ctx, store, h)
		if err != nil {
			return nil, err
		}
		child = existing
	} else {
		child = NewDirectory(now)
	}
	newChild, err := Mkdir(ctx, store, child, rest, now)
	if err != nil {
		return nil, err
	}
	childHash, err := newChild.Store(ctx, store)
	if err != nil {
		return nil, err
	}
	root.Entries[name] = childHash
	root.Metadata.UnixTimeMtime = now
	return root, nil
}

// Write stores bytes at path under root, creating intervening directories.
func Write(ctx context.Context, store blockstore.Store, root *Directory, path []string, now int64, data []byte) (*Directory, error) {
	if len(path) == 0 {
		return nil, wnfserr.New(wnfserr.FileAlreadyExists, "cannot write to the root path")
	}
	if len(path) == 1 {
		file := NewFile(now, data)
		h, err := file.Store(ctx, store)
		if err != nil {
			return nil, err
		}
		root.Entries[path[0]] = h
		root.Metadata.UnixTimeMtime = now
		return root, nil
	}
	name, rest := path[0], path[1:]
	var child *Directory
	if h, ok := root.Entries[name]; ok {
		existing, err := LoadDirectory(ctx, store, h)
		if err != nil {
			return nil, err
		}
		child = existing
	} else {
		child = NewDirectory(now)
	}
	newChild, err := Write(ctx, store, child, rest, now, data)
	if err != nil {
		return nil, err
	}
	childHash, err := newChild.Store(ctx, store)
	if err != nil {
		return nil, err
	}
	root.Entries[name] = childHash
	return root, nil
}

// Read returns the bytes stored at path under root.
func Read(ctx context.Context, store blockstore.Store, root *Directory, path []string) ([]byte, error) {
	if len(path) == 0 {
		return nil, wnfserr.New(wnfserr.NotAFile, "cannot read the root path")
	}
	name, rest := path[0], path[1:]
	h, ok := root.Entries[name]
	if !ok {
		return nil, wnfserr.New(wnfserr.NotFound, name)
	}
	if len(rest) == 0 {
		file, err := LoadFile(ctx, store, h)
		if err != nil {
			return nil, err
		}
		return file.Content, nil
	}
	child, err := LoadDirectory(ctx, store, h)
	if err != nil {
		return nil, err
	}
	return Read(ctx, store, child, rest)
}

// Rm removes the entry at path under root.
func Rm(root *Directory, path []string) error {
	if len(path) == 0 {
		return wnfserr.New(wnfserr.NotFound, "cannot remove the root path")
	}
	if _, ok := root.Entries[path[0]]; !ok {
		return wnfserr.New(wnfserr.NotFound, path[0])
	}
	if len(path) == 1 {
		delete(root.Entries, path[0])
		return nil
	}
	return wnfserr.New(wnfserr.NotADirectory, "rm: nested public removal requires resolving the child first")
}
