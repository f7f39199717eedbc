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

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnfs-go/wnfs/blockstore"
)

func TestOpenStoreDefaultsToMemory(t *testing.T) {
	store, err := Defaults().Store.OpenStore()
	require.NoError(t, err)

	ctx := context.Background()
	cid, err := store.Put(ctx, blockstore.CodecRaw, []byte("hi"))
	require.NoError(t, err)
	got, err := store.Get(ctx, cid)
	require.NoError(t, err)
	require.Equal(t, "hi", string(got))
}

func TestOpenStoreRejectsUnknownBackend(t *testing.T) {
	cfg := StoreConfig{Backend: "bogus"}
	_, err := cfg.OpenStore()
	require.Error(t, err)
}
