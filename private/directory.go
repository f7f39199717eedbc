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
	"sort"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/crypto/keys"
	"github.com/wnfs-go/wnfs/crypto/namefilter"
	"github.com/wnfs-go/wnfs/forest"
	"github.com/wnfs-go/wnfs/privatecbor"
	"github.com/wnfs-go/wnfs/wnfserr"
)

type directoryContent struct {
	Previous []PreviousLink              `cbor:"previous"`
	Metadata Metadata                    `cbor:"metadata"`
	Entries  map[string]refSerializable  `cbor:"entries"`
}

// Directory is a private node holding an ordered set of named children,
// per spec.md §4.5. Entries are kept as Links so that children already
// resolved to concrete nodes don't round-trip through the store again
// until Store is actually called.
type Directory struct {
	header      Header
	persistedAs *blockstore.CID
	previous    []PreviousLink
	metadata    Metadata
	entries     map[string]*Link
}

// NewDirectory creates an empty directory under parentBareName.
func NewDirectory(parentBareName namefilter.Filter, now int64) (*Directory, error) {
	h, err := New(parentBareName)
	if err != nil {
		return nil, err
	}
	return &Directory{
		header:   h,
		metadata: Metadata{UnixTimeMtime: now},
		entries:  make(map[string]*Link),
	}, nil
}

func (d *Directory) GetHeader() Header { return d.header }

func (d *Directory) PersistedAs() (blockstore.CID, bool) {
	if d.persistedAs == nil {
		return blockstore.CID{}, false
	}
	return *d.persistedAs, true
}

func (d *Directory) IsDirectory() bool { return true }

// Ls returns the directory's child names in sorted order.
func (d *Directory) Ls() []string {
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DirEntry is one listing row returned by LsDetailed.
type DirEntry struct {
	Name     string
	Metadata Metadata
	IsDir    bool
}

// LsDetailed is Ls with each entry's metadata resolved, per spec.md §8's
// `ls(["code"]) == [("bin", META), ("hello.py", META)]` scenario.
func (d *Directory) LsDetailed(ctx context.Context, f *forest.Forest, store blockstore.Store) ([]DirEntry, error) {
	names := d.Ls()
	out := make([]DirEntry, 0, len(names))
	for _, name := range names {
		node, err := d.entries[name].ResolveNode(ctx, f, store)
		if err != nil {
			return nil, err
		}
		var md Metadata
		switch v := node.(type) {
		case *Directory:
			md = v.metadata
		case *File:
			md = v.metadata
		}
		out = append(out, DirEntry{Name: name, Metadata: md, IsDir: node.IsDirectory()})
	}
	return out, nil
}

// PrepareNextRevision returns a clone of d advanced by one ratchet step,
// recording d's current content CID as a previous-link together with d's
// TemporalKey wrapped under the new revision's TemporalKey; the CID itself
// is stored unencrypted. If d has never been persisted,
// PrepareNextRevision is a no-op returning d itself.
func (d *Directory) PrepareNextRevision() (*Directory, error) {
	if d.persistedAs == nil {
		return d, nil
	}
	clone := *d
	clone.entries = make(map[string]*Link, len(d.entries))
	for name, link := range d.entries {
		clone.entries[name] = link
	}
	oldTemporalKey := d.header.DeriveTemporalKey()
	clone.header.AdvanceRatchet()
	newTemporalKey := clone.header.DeriveTemporalKey()
	wrappedOldKey, err := keys.WrapChildTemporalKey(newTemporalKey, oldTemporalKey)
	if err != nil {
		return nil, err
	}
	clone.previous = append(append([]PreviousLink{}, d.previous...), PreviousLink{
		SkipDistance:       1,
		PreviousContentCID: *d.persistedAs,
		WrappedTemporalKey: wrappedOldKey,
	})
	clone.persistedAs = nil
	return &clone, nil
}

// PrepareKeyRotation resamples the directory's inumber and ratchet,
// cutting off every holder of its old temporal key chain (spec.md's Open
// Question 3, decided in SPEC_FULL.md: rotation touches only the node
// itself, not its ancestors or descendants — a descendant's own
// WrappedTemporalKey is what goes stale, not its own key schedule).
func (d *Directory) PrepareKeyRotation(parentBareName namefilter.Filter) error {
	seed, err := keys.RandomSeed()
	if err != nil {
		return err
	}
	d.header.INumber = INumber(seed)
	d.header.UpdateBareName(parentBareName)
	if err := d.header.ResetRatchet(); err != nil {
		return err
	}
	d.persistedAs = nil
	d.previous = nil
	return nil
}

// Write stores bytes at path, creating intervening directories and the
// leaf file (or a new revision of it) as needed. Returns the new tree
// root the caller should keep as its handle.
func (d *Directory) Write(ctx context.Context, path []string, now int64, data []byte, f *forest.Forest, store blockstore.Store) (*Directory, error) {
	path = NormalizePath(path)
	if len(path) == 0 {
		return nil, wnfserr.New(wnfserr.FileAlreadyExists, "cannot write to the root path")
	}
	dirPath, name := path[:len(path)-1], path[len(path)-1]
	root, parent, err := d.prepareMutPath(ctx, dirPath, true, now, f, store)
	if err != nil {
		return nil, err
	}

	var file *File
	if link, ok := parent.entries[name]; ok {
		node, err := link.ResolveNode(ctx, f, store)
		if err != nil {
			return nil, err
		}
		existing, ok := AsFile(node)
		if !ok {
			return nil, wnfserr.New(wnfserr.NotAFile, name)
		}
		file, err = existing.PrepareNextRevision()
		if err != nil {
			return nil, err
		}
	} else {
		file, err = NewFile(parent.header.BareName, now)
		if err != nil {
			return nil, err
		}
	}
	if err := file.WriteContent(ctx, f, store, data); err != nil {
		return nil, err
	}
	file.metadata.UnixTimeMtime = now
	parent.entries[name] = LinkFromNode(file)
	return root, nil
}

// Read returns the bytes stored at path, failing NotAFile if path names a
// directory.
func (d *Directory) Read(ctx context.Context, path []string, searchLatest bool, f *forest.Forest, store blockstore.Store) ([]byte, error) {
	path = NormalizePath(path)
	if len(path) == 0 {
		return nil, wnfserr.New(wnfserr.NotAFile, "cannot read the root path")
	}
	dirPath, name := path[:len(path)-1], path[len(path)-1]
	parent, status, _, err := d.GetLeafDir(ctx, dirPath, searchLatest, f, store)
	if err != nil {
		return nil, err
	}
	if status != WalkFound {
		return nil, wnfserr.New(wnfserr.NotFound, name)
	}
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
	return file.GetContent(ctx, store)
}

// Mkdir creates every missing directory along path, returning the new
// tree root.
func (d *Directory) Mkdir(ctx context.Context, path []string, now int64, f *forest.Forest, store blockstore.Store) (*Directory, error) {
	root, _, err := d.prepareMutPath(ctx, NormalizePath(path), true, now, f, store)
	return root, err
}

// Rm detaches the entry at path from its parent, returning the new tree
// root. It does not touch the entry's own stored revisions: spec.md §4.4
// never deletes forest history, only the link pointing at it.
func (d *Directory) Rm(ctx context.Context, path []string, now int64, f *forest.Forest, store blockstore.Store) (*Directory, error) {
	path = NormalizePath(path)
	if len(path) == 0 {
		return nil, wnfserr.New(wnfserr.NotFound, "cannot remove the root path")
	}
	dirPath, name := path[:len(path)-1], path[len(path)-1]
	root, parent, err := d.prepareMutPath(ctx, dirPath, false, now, f, store)
	if err != nil {
		return nil, err
	}
	if _, ok := parent.entries[name]; !ok {
		return nil, wnfserr.New(wnfserr.NotFound, name)
	}
	delete(parent.entries, name)
	return root, nil
}

// Cp copies the node at srcPath to dstPath, recomputing bare_name for the
// entire copied subtree so it descends from dstPath's parent rather than
// srcPath's (spec.md §4.9's UpdateAncestry).
func (d *Directory) Cp(ctx context.Context, srcPath, dstPath []string, now int64, searchLatest bool, f *forest.Forest, store blockstore.Store) (*Directory, error) {
	srcPath = NormalizePath(srcPath)
	dstPath = NormalizePath(dstPath)
	if len(srcPath) == 0 || len(dstPath) == 0 {
		return nil, wnfserr.New(wnfserr.NotFound, "cp requires non-root source and destination")
	}
	srcDirPath, srcName := srcPath[:len(srcPath)-1], srcPath[len(srcPath)-1]
	srcDir, status, _, err := d.GetLeafDir(ctx, srcDirPath, searchLatest, f, store)
	if err != nil {
		return nil, err
	}
	if status != WalkFound {
		return nil, wnfserr.New(wnfserr.NotFound, "cp: source directory not found")
	}
	link, ok := srcDir.entries[srcName]
	if !ok {
		return nil, wnfserr.New(wnfserr.NotFound, srcName)
	}
	node, err := link.ResolveNode(ctx, f, store)
	if err != nil {
		return nil, err
	}

	dstDirPath, dstName := dstPath[:len(dstPath)-1], dstPath[len(dstPath)-1]
	root, dstDir, err := d.prepareMutPath(ctx, dstDirPath, true, now, f, store)
	if err != nil {
		return nil, err
	}

	copied, err := CloneNodeForAncestry(ctx, node, dstDir.header.BareName, f, store)
	if err != nil {
		return nil, err
	}
	dstDir.entries[dstName] = LinkFromNode(copied)
	return root, nil
}

// CpLink attaches the same capability (Ref) already at srcPath under
// dstPath too, without re-deriving the subtree's ancestry — cheaper than
// Cp, but only valid when the two locations are meant to share identical
// ciphertext rather than diverge afterward.
func (d *Directory) CpLink(ctx context.Context, srcPath, dstPath []string, now int64, searchLatest bool, f *forest.Forest, store blockstore.Store) (*Directory, error) {
	srcPath = NormalizePath(srcPath)
	dstPath = NormalizePath(dstPath)
	if len(srcPath) == 0 || len(dstPath) == 0 {
		return nil, wnfserr.New(wnfserr.NotFound, "cp_link requires non-root source and destination")
	}
	srcDirPath, srcName := srcPath[:len(srcPath)-1], srcPath[len(srcPath)-1]
	srcDir, status, _, err := d.GetLeafDir(ctx, srcDirPath, searchLatest, f, store)
	if err != nil {
		return nil, err
	}
	if status != WalkFound {
		return nil, wnfserr.New(wnfserr.NotFound, "cp_link: source directory not found")
	}
	link, ok := srcDir.entries[srcName]
	if !ok {
		return nil, wnfserr.New(wnfserr.NotFound, srcName)
	}
	ref, err := link.ResolveRef(ctx, f, store)
	if err != nil {
		return nil, err
	}

	dstDirPath, dstName := dstPath[:len(dstPath)-1], dstPath[len(dstPath)-1]
	root, dstDir, err := d.prepareMutPath(ctx, dstDirPath, true, now, f, store)
	if err != nil {
		return nil, err
	}
	dstDir.entries[dstName] = LinkFromRef(ref)
	return root, nil
}

// isPathPrefix reports whether prefix names an ancestor of (or the same
// path as) path.
func isPathPrefix(prefix, path []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i, seg := range prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}

// BasicMv is Cp followed by removing the source, a simplified move that
// doesn't preserve the moved node's own revision history across the
// rename the way a "full" move tracking previous-links across the
// relocation would. Moving a directory into its own subtree is rejected
// per spec.md §8's cycle scenario.
func (d *Directory) BasicMv(ctx context.Context, srcPath, dstPath []string, now int64, searchLatest bool, f *forest.Forest, store blockstore.Store) (*Directory, error) {
	srcPath = NormalizePath(srcPath)
	dstPath = NormalizePath(dstPath)
	if isPathPrefix(srcPath, dstPath) {
		return nil, wnfserr.New(wnfserr.NotFound, "basic_mv: destination is inside source")
	}
	moved, err := d.Cp(ctx, srcPath, dstPath, now, searchLatest, f, store)
	if err != nil {
		return nil, err
	}
	return moved.Rm(ctx, srcPath, now, f, store)
}

// WriteSymlink creates a symlink file at path pointing at target.
func (d *Directory) WriteSymlink(ctx context.Context, path []string, now int64, target string, f *forest.Forest, store blockstore.Store) (*Directory, error) {
	path = NormalizePath(path)
	if len(path) == 0 {
		return nil, wnfserr.New(wnfserr.FileAlreadyExists, "cannot symlink at the root path")
	}
	dirPath, name := path[:len(path)-1], path[len(path)-1]
	root, parent, err := d.prepareMutPath(ctx, dirPath, true, now, f, store)
	if err != nil {
		return nil, err
	}
	link, err := NewFile(parent.header.BareName, now)
	if err != nil {
		return nil, err
	}
	link.metadata.Symlink = target
	link.metadata.UnixTimeMtime = now
	parent.entries[name] = LinkFromNode(link)
	return root, nil
}

// Store persists the directory's header and content block (its entries,
// each re-wrapped under this directory's own temporal key), records the
// revision in the forest, and returns a capability for it.
func (d *Directory) Store(ctx context.Context, f *forest.Forest, store blockstore.Store) (Ref, error) {
	temporalKey := d.header.DeriveTemporalKey()

	entries := make(map[string]refSerializable, len(d.entries))
	for name, link := range d.entries {
		childRef, err := link.ResolveRef(ctx, f, store)
		if err != nil {
			return Ref{}, err
		}
		wrapped, err := wrapRef(childRef, temporalKey)
		if err != nil {
			return Ref{}, err
		}
		entries[name] = wrapped
	}

	payload, err := privatecbor.Marshal(directoryContent{
		Previous: d.previous,
		Metadata: d.metadata,
		Entries:  entries,
	})
	if err != nil {
		return Ref{}, err
	}
	envBytes, err := privatecbor.Marshal(contentEnvelope{
		Version: privatecbor.CurrentVersion,
		Type:    contentTypeDir,
		Payload: payload,
	})
	if err != nil {
		return Ref{}, err
	}
	snapshotKey := keys.DeriveSnapshotKey(temporalKey)
	cipher, err := keys.ContentEncrypt(snapshotKey, envBytes)
	if err != nil {
		return Ref{}, err
	}
	contentCID, err := store.Put(ctx, blockstore.CodecRaw, cipher)
	if err != nil {
		return Ref{}, err
	}

	headerCID, err := d.header.Store(ctx, store)
	if err != nil {
		return Ref{}, err
	}

	rrBytes, err := privatecbor.Marshal(revisionRecord{HeaderCID: headerCID, ContentCID: contentCID})
	if err != nil {
		return Ref{}, err
	}
	rrCID, err := store.Put(ctx, blockstore.CodecCBOR, rrBytes)
	if err != nil {
		return Ref{}, err
	}

	label := d.header.GetSaturatedNameHash()
	if err := f.PutEncrypted(ctx, label, []blockstore.CID{rrCID}); err != nil {
		return Ref{}, err
	}

	d.persistedAs = &contentCID
	return Ref{SaturatedNameHash: label, TemporalKey: temporalKey, ContentCID: rrCID}, nil
}
