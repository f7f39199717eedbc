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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/crypto/namefilter"
	"github.com/wnfs-go/wnfs/forest"
)

func TestEncodeDecodeRefRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	f := forest.New(store)

	root, err := NewDirectory(namefilter.Empty(), 1000)
	require.NoError(t, err)
	ref, err := root.Store(ctx, f, store)
	require.NoError(t, err)

	encoded := EncodeRef(ref)
	decoded, err := DecodeRef(encoded)
	require.NoError(t, err)
	require.Equal(t, ref, decoded)
}

func TestDecodeRefRejectsGarbage(t *testing.T) {
	_, err := DecodeRef("not-hex")
	require.Error(t, err)

	_, err = DecodeRef("ab")
	require.Error(t, err)
}
