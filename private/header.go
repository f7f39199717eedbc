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

// Package private implements the private (encrypted) node layer: headers,
// refs, links, files, and directories, per spec.md §4.3-§4.9.
package private

import (
	"context"
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/crypto/keys"
	"github.com/wnfs-go/wnfs/crypto/namefilter"
	"github.com/wnfs-go/wnfs/crypto/ratchet"
	"github.com/wnfs-go/wnfs/log"
	"github.com/wnfs-go/wnfs/privatecbor"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// INumber uniquely and permanently identifies a logical node across every
// revision it ever has.
type INumber [32]byte

// Header carries the secret identity, key-schedule state, and ancestry
// label of a private node: inumber, ratchet, and bare_name, per spec.md §4.3.
type Header struct {
	INumber  INumber
	Ratchet  ratchet.Ratchet
	BareName namefilter.Filter
}

var headerLog = log.New("component", "private/header")

// New creates a header for a brand-new node whose parent's bare name is
// parentBareName, sampling a fresh inumber and ratchet seed.
func New(parentBareName namefilter.Filter) (Header, error) {
	inumberSeed, err := keys.RandomSeed()
	if err != nil {
		return Header{}, err
	}
	ratchetSeed, err := keys.RandomSeed()
	if err != nil {
		return Header{}, err
	}
	return WithSeed(parentBareName, ratchetSeed, INumber(inumberSeed)), nil
}

// WithSeed is New's deterministic counterpart, used by tests that need
// reproducible inumbers/ratchet seeds.
func WithSeed(parentBareName namefilter.Filter, ratchetSeed [32]byte, inumber INumber) Header {
	bareName := parentBareName
	bareName.Add(inumber[:])
	return Header{
		INumber:  inumber,
		Ratchet:  ratchet.Zero(ratchetSeed),
		BareName: bareName,
	}
}

// AdvanceRatchet steps the header's ratchet forward by one revision.
func (h *Header) AdvanceRatchet() {
	h.Ratchet.Inc()
}

// UpdateBareName recomputes bare_name from a (possibly new) parent bare
// name, used when mv/cp reparents a subtree (spec.md §4.9).
func (h *Header) UpdateBareName(parentBareName namefilter.Filter) {
	bareName := parentBareName
	bareName.Add(h.INumber[:])
	h.BareName = bareName
}

// ResetRatchet replaces the ratchet with a freshly seeded one, used by
// PrepareKeyRotation to revoke every holder of the old temporal key chain.
func (h *Header) ResetRatchet() error {
	seed, err := keys.RandomSeed()
	if err != nil {
		return err
	}
	h.Ratchet = ratchet.Zero(seed)
	return nil
}

// DeriveTemporalKey implements TemporalKey::from(ratchet).
func (h Header) DeriveTemporalKey() keys.TemporalKey {
	return keys.DeriveTemporalKey(h.Ratchet)
}

// GetSaturatedNameWithKey folds temporalKey's bytes into bare_name before
// saturating, the construction supplemented from original_source's
// header.rs into SPEC_FULL.md.
func (h Header) GetSaturatedNameWithKey(temporalKey keys.TemporalKey) namefilter.Filter {
	name := h.BareName
	name.Add(temporalKey[:])
	return name.Saturate()
}

// GetSaturatedName uses the header's own derived temporal key.
func (h Header) GetSaturatedName() namefilter.Filter {
	return h.GetSaturatedNameWithKey(h.DeriveTemporalKey())
}

// GetSaturatedNameHash is the forest label this header's current revision
// is stored under.
func (h Header) GetSaturatedNameHash() [32]byte {
	name := h.GetSaturatedName()
	return sha3.Sum256(name.Bytes())
}

// SaturatedNameHashFor computes the forest label for an arbitrary
// (bareName, temporalKey) pair without needing a full Header, used by
// search_latest to probe revisions ahead of any header it currently holds.
func SaturatedNameHashFor(bareName namefilter.Filter, temporalKey keys.TemporalKey) [32]byte {
	name := bareName
	name.Add(temporalKey[:])
	return sha3.Sum256(name.Saturate().Bytes())
}

// ChunkSaturatedNameHash computes the forest label an external file chunk's
// CID is registered under: baseName with the chunk's index folded in as an
// additional element before saturating, per spec.md §4.6's
// base_name ∪ {chunk_index} construction.
func ChunkSaturatedNameHash(baseName namefilter.Filter, chunkIndex int) [32]byte {
	name := baseName
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], uint64(chunkIndex))
	name.Add(idx[:])
	return sha3.Sum256(name.Saturate().Bytes())
}

// DeriveRevisionRef derives the capability that lets a holder ask the
// forest for every ciphertext known at this header's current label.
func (h Header) DeriveRevisionRef() RevisionRef {
	return RevisionRef{
		SaturatedNameHash: h.GetSaturatedNameHash(),
		TemporalKey:       h.DeriveTemporalKey(),
	}
}

type headerLinks struct {
	INumber  blockstore.CID `cbor:"inumber"`
	Ratchet  blockstore.CID `cbor:"ratchet"`
	BareName blockstore.CID `cbor:"bare_name"`
}

// Store encrypts and writes the header's three sub-fields as independently
// wrapped blocks, then a small linking map block, returning the map's CID.
// inumber/bare_name are wrapped under the snapshot key, ratchet under the
// temporal key, exactly as header.rs::store.
func (h Header) Store(ctx context.Context, store blockstore.Store) (blockstore.CID, error) {
	temporalKey := h.DeriveTemporalKey()
	snapshotKey := keys.DeriveSnapshotKey(temporalKey)
	snapshotAsTemporal := keys.TemporalKey(snapshotKey)

	inumberPlain, err := privatecbor.Marshal(h.INumber)
	if err != nil {
		return blockstore.CID{}, err
	}
	ratchetPlain, err := privatecbor.Marshal(h.Ratchet.Bytes())
	if err != nil {
		return blockstore.CID{}, err
	}
	bareNamePlain, err := privatecbor.Marshal(h.BareName.Bytes())
	if err != nil {
		return blockstore.CID{}, err
	}

	inumberCipher, err := keys.WrapEncrypt(snapshotAsTemporal, inumberPlain)
	if err != nil {
		return blockstore.CID{}, err
	}
	ratchetCipher, err := keys.WrapEncrypt(temporalKey, ratchetPlain)
	if err != nil {
		return blockstore.CID{}, err
	}
	bareNameCipher, err := keys.WrapEncrypt(snapshotAsTemporal, bareNamePlain)
	if err != nil {
		return blockstore.CID{}, err
	}

	inumberCID, err := store.Put(ctx, blockstore.CodecRaw, inumberCipher)
	if err != nil {
		return blockstore.CID{}, err
	}
	ratchetCID, err := store.Put(ctx, blockstore.CodecRaw, ratchetCipher)
	if err != nil {
		return blockstore.CID{}, err
	}
	bareNameCID, err := store.Put(ctx, blockstore.CodecRaw, bareNameCipher)
	if err != nil {
		return blockstore.CID{}, err
	}

	links := headerLinks{INumber: inumberCID, Ratchet: ratchetCID, BareName: bareNameCID}
	linksBytes, err := privatecbor.Marshal(links)
	if err != nil {
		return blockstore.CID{}, err
	}
	mapCID, err := store.Put(ctx, blockstore.CodecCBOR, linksBytes)
	if err != nil {
		return blockstore.CID{}, err
	}
	headerLog.Debug("stored header", "saturated_name_hash", h.GetSaturatedNameHash(), "map_cid", mapCID)
	return mapCID, nil
}

// LoadTemporal is Store's inverse for a holder possessing the temporal
// key: it can decrypt all three fields, recovering a fully steppable
// ratchet.
func LoadTemporal(ctx context.Context, store blockstore.Store, cid blockstore.CID, temporalKey keys.TemporalKey) (Header, error) {
	snapshotKey := keys.DeriveSnapshotKey(temporalKey)
	snapshotAsTemporal := keys.TemporalKey(snapshotKey)

	linksBytes, err := store.Get(ctx, cid)
	if err != nil {
		return Header{}, err
	}
	var links headerLinks
	if err := privatecbor.Unmarshal(linksBytes, &links); err != nil {
		return Header{}, err
	}

	inumberCipher, err := store.Get(ctx, links.INumber)
	if err != nil {
		return Header{}, err
	}
	ratchetCipher, err := store.Get(ctx, links.Ratchet)
	if err != nil {
		return Header{}, err
	}
	bareNameCipher, err := store.Get(ctx, links.BareName)
	if err != nil {
		return Header{}, err
	}

	inumberPlain, err := keys.WrapDecrypt(snapshotAsTemporal, inumberCipher)
	if err != nil {
		return Header{}, err
	}
	ratchetPlain, err := keys.WrapDecrypt(temporalKey, ratchetCipher)
	if err != nil {
		return Header{}, err
	}
	bareNamePlain, err := keys.WrapDecrypt(snapshotAsTemporal, bareNameCipher)
	if err != nil {
		return Header{}, err
	}

	var inumber INumber
	if err := privatecbor.Unmarshal(inumberPlain, &inumber); err != nil {
		return Header{}, err
	}
	var ratchetBytes []byte
	if err := privatecbor.Unmarshal(ratchetPlain, &ratchetBytes); err != nil {
		return Header{}, err
	}
	r, ok := ratchet.FromBytes(ratchetBytes)
	if !ok {
		return Header{}, wnfserr.New(wnfserr.DecodingError, "malformed ratchet bytes")
	}
	var bareNameBytes []byte
	if err := privatecbor.Unmarshal(bareNamePlain, &bareNameBytes); err != nil {
		return Header{}, err
	}

	return Header{
		INumber:  inumber,
		Ratchet:  r,
		BareName: namefilter.FromBytes(bareNameBytes),
	}, nil
}

// LoadSnapshot is Store's inverse for a holder possessing only the
// snapshot key: it recovers inumber and bare_name, but the ratchet is a
// zero placeholder since a snapshot-only reader cannot step history.
func LoadSnapshot(ctx context.Context, store blockstore.Store, cid blockstore.CID, snapshotKey keys.SnapshotKey) (Header, error) {
	snapshotAsTemporal := keys.TemporalKey(snapshotKey)

	linksBytes, err := store.Get(ctx, cid)
	if err != nil {
		return Header{}, err
	}
	var links headerLinks
	if err := privatecbor.Unmarshal(linksBytes, &links); err != nil {
		return Header{}, err
	}

	inumberCipher, err := store.Get(ctx, links.INumber)
	if err != nil {
		return Header{}, err
	}
	bareNameCipher, err := store.Get(ctx, links.BareName)
	if err != nil {
		return Header{}, err
	}

	inumberPlain, err := keys.WrapDecrypt(snapshotAsTemporal, inumberCipher)
	if err != nil {
		return Header{}, err
	}
	bareNamePlain, err := keys.WrapDecrypt(snapshotAsTemporal, bareNameCipher)
	if err != nil {
		return Header{}, err
	}

	var inumber INumber
	if err := privatecbor.Unmarshal(inumberPlain, &inumber); err != nil {
		return Header{}, err
	}
	var bareNameBytes []byte
	if err := privatecbor.Unmarshal(bareNamePlain, &bareNameBytes); err != nil {
		return Header{}, err
	}

	return Header{
		INumber:  inumber,
		Ratchet:  ratchet.Zero([32]byte{}),
		BareName: namefilter.FromBytes(bareNameBytes),
	}, nil
}
