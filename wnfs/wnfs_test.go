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

package wnfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnfs-go/wnfs/blockstore"
)

func TestWriteReadLsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	fs, err := New(store)
	require.NoError(t, err)

	require.NoError(t, fs.Write(ctx, []string{"code", "hello.py"}, 1001, []byte("print('hi')")))

	got, err := fs.Read(ctx, []string{"code", "hello.py"}, false)
	require.NoError(t, err)
	require.Equal(t, "print('hi')", string(got))

	entries, err := fs.Ls(ctx, []string{"code"}, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "hello.py", entries[0].Name)
	require.False(t, entries[0].IsDir)
}

func TestCommitAndMount(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	fs, err := New(store)
	require.NoError(t, err)

	require.NoError(t, fs.Write(ctx, []string{"a.txt"}, 1001, []byte("hello")))
	ref, err := fs.Commit(ctx)
	require.NoError(t, err)

	mounted, err := Mount(ctx, store, fs.Forest(), ref)
	require.NoError(t, err)

	got, err := mounted.Read(ctx, []string{"a.txt"}, false)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestHistoryReturnsPriorRevisions(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	fs, err := New(store)
	require.NoError(t, err)

	require.NoError(t, fs.Write(ctx, []string{"f.txt"}, 1001, []byte("one")))
	_, err = fs.Commit(ctx)
	require.NoError(t, err)

	require.NoError(t, fs.Write(ctx, []string{"f.txt"}, 1002, []byte("two")))
	_, err = fs.Commit(ctx)
	require.NoError(t, err)

	hist, err := fs.History(ctx, []string{"f.txt"}, 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.Equal(t, "one", string(hist[0]))
}
