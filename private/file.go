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
	"bytes"
	"context"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/crypto/keys"
	"github.com/wnfs-go/wnfs/crypto/namefilter"
	"github.com/wnfs-go/wnfs/forest"
	"github.com/wnfs-go/wnfs/privatecbor"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// externalChunkThreshold is the content size above which File stores its
// bytes as a sequence of separately-encrypted chunk blocks instead of
// inline in the content block itself, per spec.md §4.6's Inline/External
// split.
const externalChunkThreshold = 256 * 1024

const chunkSize = 256 * 1024

// fileContentKey encrypts a file's externally-chunked content, independent
// of the ratchet-derived SnapshotKey: chunk blocks are written once and
// never re-encrypted on a later revision the way the content envelope is,
// so they need their own stable key.
type fileContentKey [32]byte

type inlineContent struct {
	Bytes []byte `cbor:"bytes"`
}

type externalContent struct {
	BaseName   []byte           `cbor:"base_name"`
	Key        fileContentKey   `cbor:"key"`
	BlockCount int              `cbor:"block_count"`
	ChunkCIDs  []blockstore.CID `cbor:"chunk_cids"`
}

type fileData struct {
	Inline   *inlineContent   `cbor:"inline,omitempty"`
	External *externalContent `cbor:"external,omitempty"`
}

type fileContent struct {
	Previous []PreviousLink `cbor:"previous"`
	Metadata Metadata       `cbor:"metadata"`
	Content  fileData       `cbor:"content"`
}

// File is a private node holding either inline bytes or a chunked external
// blob; a symlink is represented as a File with empty content and
// metadata.Symlink set to the link target, per spec.md §4.6.
type File struct {
	header      Header
	persistedAs *blockstore.CID
	previous    []PreviousLink
	metadata    Metadata
	content     fileData
}

// NewFile creates an empty file under parentBareName.
func NewFile(parentBareName namefilter.Filter, now int64) (*File, error) {
	h, err := New(parentBareName)
	if err != nil {
		return nil, err
	}
	return &File{
		header:   h,
		metadata: Metadata{UnixTimeMtime: now},
		content:  fileData{Inline: &inlineContent{}},
	}, nil
}

func (fl *File) GetHeader() Header { return fl.header }

func (fl *File) PersistedAs() (blockstore.CID, bool) {
	if fl.persistedAs == nil {
		return blockstore.CID{}, false
	}
	return *fl.persistedAs, true
}

func (fl *File) IsDirectory() bool { return false }

// IsSymlink reports whether this file represents a symlink rather than
// regular content.
func (fl *File) IsSymlink() bool { return fl.metadata.Symlink != "" }

// SymlinkTarget returns the symlink's target path, or "" if this file is
// not a symlink.
func (fl *File) SymlinkTarget() string { return fl.metadata.Symlink }

// PrepareNextRevision returns a clone of fl advanced by one ratchet step,
// recording fl's current content CID as a previous-link together with fl's
// TemporalKey wrapped under the new revision's TemporalKey; the CID itself
// is stored unencrypted. If fl has never been persisted,
// PrepareNextRevision is a no-op returning fl itself.
func (fl *File) PrepareNextRevision() (*File, error) {
	if fl.persistedAs == nil {
		return fl, nil
	}
	clone := *fl
	oldTemporalKey := fl.header.DeriveTemporalKey()
	clone.header.AdvanceRatchet()
	newTemporalKey := clone.header.DeriveTemporalKey()
	wrappedOldKey, err := keys.WrapChildTemporalKey(newTemporalKey, oldTemporalKey)
	if err != nil {
		return nil, err
	}
	clone.previous = append(append([]PreviousLink{}, fl.previous...), PreviousLink{
		SkipDistance:       1,
		PreviousContentCID: *fl.persistedAs,
		WrappedTemporalKey: wrappedOldKey,
	})
	clone.persistedAs = nil
	return &clone, nil
}

// WriteContent replaces the file's content with data, chunking it
// externally if it exceeds externalChunkThreshold. Each external chunk's
// CID is registered in f under a per-chunk saturated name derived from the
// file's bare_name plus the chunk's index, per spec.md §4.6.
func (fl *File) WriteContent(ctx context.Context, f *forest.Forest, store blockstore.Store, data []byte) error {
	if len(data) <= externalChunkThreshold {
		inline := make([]byte, len(data))
		copy(inline, data)
		fl.content = fileData{Inline: &inlineContent{Bytes: inline}}
		return nil
	}

	seed, err := keys.RandomSeed()
	if err != nil {
		return err
	}
	key := fileContentKey(seed)
	baseName := fl.header.BareName

	var cids []blockstore.CID
	chunkIndex := 0
	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		cipher, err := keys.ContentEncrypt([32]byte(key), data[off:end])
		if err != nil {
			return err
		}
		cid, err := store.Put(ctx, blockstore.CodecRaw, cipher)
		if err != nil {
			return err
		}
		label := ChunkSaturatedNameHash(baseName, chunkIndex)
		if err := f.PutEncrypted(ctx, label, []blockstore.CID{cid}); err != nil {
			return err
		}
		cids = append(cids, cid)
		chunkIndex++
	}

	fl.content = fileData{External: &externalContent{
		BaseName:   baseName.Bytes(),
		Key:        key,
		BlockCount: len(cids),
		ChunkCIDs:  cids,
	}}
	return nil
}

// GetContent reassembles the file's bytes, failing with ContentCorrupted
// if any chunk is missing or fails to decrypt, per spec.md §4.6.
func (fl *File) GetContent(ctx context.Context, store blockstore.Store) ([]byte, error) {
	if fl.content.Inline != nil {
		return fl.content.Inline.Bytes, nil
	}
	ext := fl.content.External
	if ext == nil {
		return nil, wnfserr.New(wnfserr.ContentCorrupted, "file has neither inline nor external content")
	}
	if len(ext.ChunkCIDs) != ext.BlockCount {
		return nil, wnfserr.New(wnfserr.ContentCorrupted, "chunk count does not match recorded block_count")
	}

	var buf bytes.Buffer
	for _, cid := range ext.ChunkCIDs {
		cipher, err := store.Get(ctx, cid)
		if err != nil {
			return nil, wnfserr.Wrap(wnfserr.ContentCorrupted, "missing file chunk", err)
		}
		plain, err := keys.ContentDecrypt([32]byte(ext.Key), cipher)
		if err != nil {
			return nil, wnfserr.Wrap(wnfserr.ContentCorrupted, "undecryptable file chunk", err)
		}
		buf.Write(plain)
	}
	return buf.Bytes(), nil
}

// PrepareKeyRotation resamples the file's inumber and ratchet, cutting off
// every holder of its old temporal key chain (spec.md's Open Question 3,
// decided in SPEC_FULL.md: rotation touches only the node itself, not its
// ancestors or descendants).
func (fl *File) PrepareKeyRotation(parentBareName namefilter.Filter) error {
	seed, err := keys.RandomSeed()
	if err != nil {
		return err
	}
	fl.header.INumber = INumber(seed)
	fl.header.UpdateBareName(parentBareName)
	if err := fl.header.ResetRatchet(); err != nil {
		return err
	}
	fl.persistedAs = nil
	fl.previous = nil
	return nil
}

// Store persists the file's header and content block, records the
// revision in the forest, and returns a capability for it.
func (fl *File) Store(ctx context.Context, f *forest.Forest, store blockstore.Store) (Ref, error) {
	temporalKey := fl.header.DeriveTemporalKey()

	payload, err := privatecbor.Marshal(fileContent{
		Previous: fl.previous,
		Metadata: fl.metadata,
		Content:  fl.content,
	})
	if err != nil {
		return Ref{}, err
	}
	envBytes, err := privatecbor.Marshal(contentEnvelope{
		Version: privatecbor.CurrentVersion,
		Type:    contentTypeFile,
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

	headerCID, err := fl.header.Store(ctx, store)
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

	label := fl.header.GetSaturatedNameHash()
	if err := f.PutEncrypted(ctx, label, []blockstore.CID{rrCID}); err != nil {
		return Ref{}, err
	}

	fl.persistedAs = &contentCID
	return Ref{SaturatedNameHash: label, TemporalKey: temporalKey, ContentCID: rrCID}, nil
}
