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
	"encoding/hex"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/crypto/keys"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// Ref is a stable handle enabling a holder to fetch and decrypt one
// specific revision of a node, per spec.md §3.
type Ref struct {
	SaturatedNameHash [32]byte
	TemporalKey       keys.TemporalKey
	ContentCID        blockstore.CID
}

// RevisionRef names a label in the forest without pinning a specific
// content CID: "give me all ciphertexts known at this label", per
// spec.md §3.
type RevisionRef struct {
	SaturatedNameHash [32]byte
	TemporalKey       keys.TemporalKey
}

// refSerializable is the on-the-wire shape of a Ref embedded in a
// directory's entries map: the child's temporal key is wrapped under the
// parent's, per the original_source-supplemented scheme in SPEC_FULL.md,
// so that rotating the parent's ratchet cuts every descendant off without
// needing to walk the subtree.
type refSerializable struct {
	SaturatedNameHash [32]byte       `cbor:"saturated_name_hash"`
	ContentCID        blockstore.CID `cbor:"content_cid"`
	WrappedTemporalKey []byte        `cbor:"wrapped_temporal_key"`
}

// wrapRef encodes ref's wire form, wrapping its TemporalKey under
// parentTemporalKey.
func wrapRef(ref Ref, parentTemporalKey keys.TemporalKey) (refSerializable, error) {
	wrapped, err := keys.WrapChildTemporalKey(parentTemporalKey, ref.TemporalKey)
	if err != nil {
		return refSerializable{}, err
	}
	return refSerializable{
		SaturatedNameHash:  ref.SaturatedNameHash,
		ContentCID:         ref.ContentCID,
		WrappedTemporalKey: wrapped,
	}, nil
}

// EncodeRef renders a Ref as a single hex string a caller can persist
// between process runs (e.g. cmd/wnfs's ref file), the concatenation of
// saturated_name_hash || temporal_key || content_cid.
func EncodeRef(ref Ref) string {
	buf := make([]byte, 0, 32+keys.KeySize+len(ref.ContentCID.Bytes()))
	buf = append(buf, ref.SaturatedNameHash[:]...)
	buf = append(buf, ref.TemporalKey[:]...)
	buf = append(buf, ref.ContentCID.Bytes()...)
	return hex.EncodeToString(buf)
}

// DecodeRef is EncodeRef's inverse.
func DecodeRef(s string) (Ref, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Ref{}, wnfserr.Wrap(wnfserr.DecodingError, "decode ref hex", err)
	}
	const headLen = 32 + keys.KeySize
	if len(raw) <= headLen {
		return Ref{}, wnfserr.New(wnfserr.DecodingError, "ref too short")
	}
	var ref Ref
	copy(ref.SaturatedNameHash[:], raw[:32])
	copy(ref.TemporalKey[:], raw[32:headLen])
	cid, ok := blockstore.CIDFromBytes(raw[headLen:])
	if !ok {
		return Ref{}, wnfserr.New(wnfserr.DecodingError, "malformed content cid in ref")
	}
	ref.ContentCID = cid
	return ref, nil
}

// unwrapRef is wrapRef's inverse.
func unwrapRef(s refSerializable, parentTemporalKey keys.TemporalKey) (Ref, error) {
	tk, err := keys.UnwrapChildTemporalKey(parentTemporalKey, s.WrappedTemporalKey)
	if err != nil {
		return Ref{}, err
	}
	return Ref{
		SaturatedNameHash: s.SaturatedNameHash,
		TemporalKey:       tk,
		ContentCID:        s.ContentCID,
	}, nil
}
