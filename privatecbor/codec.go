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

// Package privatecbor provides the canonical, dag-cbor-shaped encode/decode
// pair both the private and public trees serialize their nodes with, per
// spec.md §6's "Canonical block encoding". Shared between trees because
// the teacher's own rlp package, the obvious first choice for a codec, was
// retrieved as a single incomplete fragment (see DESIGN.md) with no
// encoder/decoder to adapt.
package privatecbor

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/wnfs-go/wnfs/wnfserr"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	opts := cbor.CanonicalEncOptions()
	m, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	encMode = m

	dopts := cbor.DecOptions{}
	dm, err := dopts.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// Marshal encodes v as canonical CBOR: sorted map keys, minimal integer
// encodings, so identical logical values always produce identical bytes
// (and therefore identical CIDs).
func Marshal(v interface{}) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, wnfserr.Wrap(wnfserr.DecodingError, "cbor marshal", err)
	}
	return data, nil
}

// Unmarshal decodes CBOR bytes into v.
func Unmarshal(data []byte, v interface{}) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return wnfserr.Wrap(wnfserr.DecodingError, "cbor unmarshal", err)
	}
	return nil
}
