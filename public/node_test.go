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

package public

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/common"
)

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	root := NewDirectory(1000)

	root, err := Write(ctx, store, root, []string{"code", "hello.py"}, 1001, []byte("print('hi')"))
	require.NoError(t, err)

	got, err := Read(ctx, store, root, []string{"code", "hello.py"})
	require.NoError(t, err)
	require.Equal(t, "print('hi')", string(got))
}

func TestMkdirThenLs(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	root := NewDirectory(1000)

	root, err := Mkdir(ctx, store, root, []string{"a", "b"}, 1001)
	require.NoError(t, err)

	require.Equal(t, []string{"a"}, root.Ls())

	h := root.Entries["a"]
	a, err := LoadDirectory(ctx, store, h)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, a.Ls())
}

func TestRmRemovesEntry(t *testing.T) {
	root := NewDirectory(1000)
	root.Entries["f"] = common.Hash{}
	require.NoError(t, Rm(root, []string{"f"}))
	require.Empty(t, root.Ls())

	err := Rm(root, []string{"missing"})
	require.Error(t, err)
}

func TestStoreLoadDirectoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()
	root := NewDirectory(1000)
	root, err := Write(ctx, store, root, []string{"file.txt"}, 1001, []byte("content"))
	require.NoError(t, err)

	h, err := root.Store(ctx, store)
	require.NoError(t, err)

	loaded, err := LoadDirectory(ctx, store, h)
	require.NoError(t, err)
	require.Equal(t, root.Ls(), loaded.Ls())
}
