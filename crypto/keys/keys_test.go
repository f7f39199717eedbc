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

package keys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnfs-go/wnfs/crypto/ratchet"
)

func TestDeriveKeysAreDeterministic(t *testing.T) {
	r := ratchet.Zero([32]byte{1})
	tk1 := DeriveTemporalKey(r)
	tk2 := DeriveTemporalKey(r)
	require.Equal(t, tk1, tk2)

	sk1 := DeriveSnapshotKey(tk1)
	sk2 := DeriveSnapshotKey(tk2)
	require.Equal(t, sk1, sk2)
}

func TestWrapEncryptIsDeterministic(t *testing.T) {
	var key [KeySize]byte
	copy(key[:], []byte("0123456789abcdef0123456789abcdef"))

	ct1, err := WrapEncrypt(key, []byte("inumber bytes"))
	require.NoError(t, err)
	ct2, err := WrapEncrypt(key, []byte("inumber bytes"))
	require.NoError(t, err)
	require.Equal(t, ct1, ct2)

	pt, err := WrapDecrypt(key, ct1)
	require.NoError(t, err)
	require.Equal(t, []byte("inumber bytes"), pt)
}

func TestContentEncryptUsesRandomNonce(t *testing.T) {
	var key [KeySize]byte
	copy(key[:], []byte("0123456789abcdef0123456789abcdef"))

	ct1, err := ContentEncrypt(key, []byte("file contents"))
	require.NoError(t, err)
	ct2, err := ContentEncrypt(key, []byte("file contents"))
	require.NoError(t, err)
	require.NotEqual(t, ct1, ct2, "nonces must differ")

	pt1, err := ContentDecrypt(key, ct1)
	require.NoError(t, err)
	require.Equal(t, []byte("file contents"), pt1)
}

func TestWrapChildTemporalKeyRoundTrip(t *testing.T) {
	parent := DeriveTemporalKey(ratchet.Zero([32]byte{1}))
	child := DeriveTemporalKey(ratchet.Zero([32]byte{2}))

	wrapped, err := WrapChildTemporalKey(parent, child)
	require.NoError(t, err)

	got, err := UnwrapChildTemporalKey(parent, wrapped)
	require.NoError(t, err)
	require.Equal(t, child, got)
}

func TestUnwrapChildTemporalKeyFailsForWrongParent(t *testing.T) {
	parent := DeriveTemporalKey(ratchet.Zero([32]byte{1}))
	wrongParent := DeriveTemporalKey(ratchet.Zero([32]byte{99}))
	child := DeriveTemporalKey(ratchet.Zero([32]byte{2}))

	wrapped, err := WrapChildTemporalKey(parent, child)
	require.NoError(t, err)

	_, err = UnwrapChildTemporalKey(wrongParent, wrapped)
	require.Error(t, err)
}
