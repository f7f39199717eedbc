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

// Package blockstore defines the content-addressed block store contract
// (spec.md §4.9/§6) and the CID scheme every backend in this package
// implements: CIDv1, SHA-256 multihash, raw or dag-cbor multicodec.
package blockstore

import (
	"context"
	"crypto/sha256"

	"github.com/wnfs-go/wnfs/wnfserr"
)

// MaxBlockSize is the largest byte slice Put will accept, per spec.md §6.
const MaxBlockSize = 1 << 20 // 1 MiB

// Codec distinguishes raw file-chunk blocks from structured dag-cbor blocks,
// encoded as the low multicodec byte of a CID per the IPLD CIDv1 scheme.
type Codec uint8

const (
	CodecRaw    Codec = 0x55
	CodecCBOR   Codec = 0x71
	cidVersion        = 0x01
	multihashSHA256Code = 0x12
	multihashLength     = 0x20
)

// CID is a self-describing content address: version, codec, and a SHA-256
// multihash of the block's plaintext bytes (ciphertext for encrypted
// blocks — the store never sees plaintext content, only what callers hand
// it).
type CID struct {
	Codec Codec
	Hash  [sha256.Size]byte
}

// NewCID computes the CID of data under the given codec.
func NewCID(codec Codec, data []byte) CID {
	return CID{Codec: codec, Hash: sha256.Sum256(data)}
}

// Bytes serializes a CID to its canonical binary form:
// version || codec || multihash-code || multihash-length || digest.
func (c CID) Bytes() []byte {
	buf := make([]byte, 0, 4+sha256.Size)
	buf = append(buf, cidVersion, byte(c.Codec), multihashSHA256Code, multihashLength)
	buf = append(buf, c.Hash[:]...)
	return buf
}

// String renders the CID as a lowercase hex string prefixed with "b", in
// the spirit of multibase base32 without adding a new dependency purely
// for display formatting.
func (c CID) String() string {
	const hextable = "0123456789abcdef"
	raw := c.Bytes()
	out := make([]byte, len(raw)*2+1)
	out[0] = 'b'
	for i, b := range raw {
		out[1+i*2] = hextable[b>>4]
		out[2+i*2] = hextable[b&0xf]
	}
	return string(out)
}

// CIDFromBytes parses the canonical binary form produced by Bytes.
func CIDFromBytes(b []byte) (CID, bool) {
	if len(b) != 4+sha256.Size {
		return CID{}, false
	}
	if b[0] != cidVersion || b[2] != multihashSHA256Code || b[3] != multihashLength {
		return CID{}, false
	}
	var c CID
	c.Codec = Codec(b[1])
	copy(c.Hash[:], b[4:])
	return c, true
}

// Key returns the flat byte key backends index blocks under.
func (c CID) Key() []byte {
	var k [1 + sha256.Size]byte
	k[0] = byte(c.Codec)
	copy(k[1:], c.Hash[:])
	return k[:]
}

func keyToCID(k []byte) (CID, bool) {
	if len(k) != 1+sha256.Size {
		return CID{}, false
	}
	var c CID
	c.Codec = Codec(k[0])
	copy(c.Hash[:], k[1:])
	return c, true
}

// Store is the contract every block-store backend implements: an
// append-only, content-addressed key-value mapping from CID to bytes.
type Store interface {
	// Put writes data under its own CID, computed with the given codec, and
	// returns that CID. Writing the same bytes twice is a no-op beyond the
	// second Put (content addressing makes Put idempotent).
	Put(ctx context.Context, codec Codec, data []byte) (CID, error)
	// Get retrieves the bytes for a CID. Returns wnfserr.NotFound if absent.
	Get(ctx context.Context, cid CID) ([]byte, error)
	// Has reports whether a CID is present without transferring its bytes.
	Has(ctx context.Context, cid CID) (bool, error)
}

// PutSerializable CBOR-encodes v and stores it as a dag-cbor block, the
// pattern every structured node in this module (headers, forest nodes,
// directory content) goes through on its way to the store.
func PutSerializable(ctx context.Context, s Store, v interface{}, marshal func(interface{}) ([]byte, error)) (CID, error) {
	data, err := marshal(v)
	if err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.DecodingError, "marshal serializable", err)
	}
	if len(data) > MaxBlockSize {
		return CID{}, wnfserr.ErrMaxBlockSize
	}
	return s.Put(ctx, CodecCBOR, data)
}

// GetDeserializable is PutSerializable's inverse.
func GetDeserializable(ctx context.Context, s Store, cid CID, v interface{}, unmarshal func([]byte, interface{}) error) error {
	data, err := s.Get(ctx, cid)
	if err != nil {
		return err
	}
	if err := unmarshal(data, v); err != nil {
		return wnfserr.Wrap(wnfserr.DecodingError, "unmarshal serializable", err)
	}
	return nil
}
