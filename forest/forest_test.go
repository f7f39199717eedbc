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

package forest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnfs-go/wnfs/blockstore"
)

func TestPutEncryptedConverges(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	f := New(store)

	label := [32]byte{1, 2, 3}
	cidA := blockstore.NewCID(blockstore.CodecRaw, []byte("a"))
	cidB := blockstore.NewCID(blockstore.CodecRaw, []byte("b"))

	require.NoError(t, f.PutEncrypted(ctx, label, []blockstore.CID{cidA}))
	require.NoError(t, f.PutEncrypted(ctx, label, []blockstore.CID{cidB}))

	got, err := f.GetEncrypted(ctx, label)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Contains(t, got, cidA)
	require.Contains(t, got, cidB)
}

func TestHasValueFalseForUnknownLabel(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	f := New(store)

	has, err := f.HasValue(ctx, [32]byte{9, 9})
	require.NoError(t, err)
	require.False(t, has)
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	f := New(store)

	label := [32]byte{5}
	cid := blockstore.NewCID(blockstore.CodecRaw, []byte("content"))
	require.NoError(t, f.PutEncrypted(ctx, label, []blockstore.CID{cid}))

	rootCID, err := f.Persist(ctx)
	require.NoError(t, err)

	loaded, err := Load(ctx, store, rootCID)
	require.NoError(t, err)

	got, err := loaded.GetEncrypted(ctx, label)
	require.NoError(t, err)
	require.Equal(t, []blockstore.CID{cid}, got)
}

func TestMergeUnionsTwoForests(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	a := New(store)
	b := New(store)

	labelShared := [32]byte{1}
	labelOnlyB := [32]byte{2}
	cid1 := blockstore.NewCID(blockstore.CodecRaw, []byte("1"))
	cid2 := blockstore.NewCID(blockstore.CodecRaw, []byte("2"))
	cid3 := blockstore.NewCID(blockstore.CodecRaw, []byte("3"))

	require.NoError(t, a.PutEncrypted(ctx, labelShared, []blockstore.CID{cid1}))
	require.NoError(t, b.PutEncrypted(ctx, labelShared, []blockstore.CID{cid2}))
	require.NoError(t, b.PutEncrypted(ctx, labelOnlyB, []blockstore.CID{cid3}))

	require.NoError(t, a.Merge(ctx, b))

	shared, err := a.GetEncrypted(ctx, labelShared)
	require.NoError(t, err)
	require.ElementsMatch(t, []blockstore.CID{cid1, cid2}, shared)

	onlyB, err := a.GetEncrypted(ctx, labelOnlyB)
	require.NoError(t, err)
	require.Equal(t, []blockstore.CID{cid3}, onlyB)
}

func TestGCSweepsOnlyUnreachable(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	f := New(store)

	label := [32]byte{3}
	keep, err := store.Put(ctx, blockstore.CodecRaw, []byte("kept"))
	require.NoError(t, err)
	require.NoError(t, f.PutEncrypted(ctx, label, []blockstore.CID{keep}))

	orphan, err := store.Put(ctx, blockstore.CodecRaw, []byte("orphaned"))
	require.NoError(t, err)

	reachable, err := f.ReachableFromForest(ctx)
	require.NoError(t, err)
	reachable[keep] = struct{}{}

	orphans := Orphans(store, reachable)
	require.Equal(t, []blockstore.CID{orphan}, orphans)

	stats := Sweep(ctx, store, reachable)
	require.Equal(t, 1, stats.Deleted)

	has, err := store.Has(ctx, keep)
	require.NoError(t, err)
	require.True(t, has)

	has, err = store.Has(ctx, orphan)
	require.NoError(t, err)
	require.False(t, has)
}
