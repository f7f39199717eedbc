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

package blockstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnfs-go/wnfs/wnfserr"
)

func TestMemoryStorePutGetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("hello private filesystem")
	cid1, err := store.Put(ctx, CodecRaw, data)
	require.NoError(t, err)
	cid2, err := store.Put(ctx, CodecRaw, data)
	require.NoError(t, err)
	require.Equal(t, cid1, cid2)
	require.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, cid1)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestMemoryStoreGetMissingReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	missing := NewCID(CodecRaw, []byte("never written"))
	_, err := store.Get(ctx, missing)
	require.Error(t, err)
	require.True(t, wnfserr.Is(err, wnfserr.NotFound))
}

func TestMaxBlockSizeExceeded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	big := make([]byte, MaxBlockSize+1)
	_, err := store.Put(ctx, CodecRaw, big)
	require.Error(t, err)
	require.True(t, wnfserr.Is(err, wnfserr.MaxBlockSizeExceeded))
}

func TestCIDRoundTrip(t *testing.T) {
	cid := NewCID(CodecCBOR, []byte("some bytes"))
	b := cid.Bytes()
	got, ok := CIDFromBytes(b)
	require.True(t, ok)
	require.Equal(t, cid, got)
}

func TestTieredStoreBackfillsPrimary(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	secondary := NewMemoryStore()
	tiered := NewTieredStore(primary, secondary)

	data := []byte("remote block")
	cid, err := secondary.Put(ctx, CodecRaw, data)
	require.NoError(t, err)

	got, err := tiered.Get(ctx, cid)
	require.NoError(t, err)
	require.Equal(t, data, got)

	has, err := primary.Has(ctx, cid)
	require.NoError(t, err)
	require.True(t, has, "tiered Get should backfill primary")

	hits, misses := tiered.Efficiency()
	require.Equal(t, 0, hits)
	require.Equal(t, 1, misses)

	_, err = tiered.Get(ctx, cid)
	require.NoError(t, err)
	hits, _ = tiered.Efficiency()
	require.Equal(t, 1, hits)
}

func TestCachedStoreServesRepeatedGets(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	cached, err := NewCachedStore(inner, 16)
	require.NoError(t, err)

	data := []byte("cached content")
	cid, err := inner.Put(ctx, CodecRaw, data)
	require.NoError(t, err)

	got, err := cached.Get(ctx, cid)
	require.NoError(t, err)
	require.Equal(t, data, got)

	got, err = cached.Get(ctx, cid)
	require.NoError(t, err)
	require.Equal(t, data, got)
}
