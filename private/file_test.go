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
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/crypto/namefilter"
	"github.com/wnfs-go/wnfs/forest"
)

func TestFileExternalChunkingRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()

	fr := forest.New(store)
	f, err := NewFile(namefilter.Empty(), 1000)
	require.NoError(t, err)

	data := bytes.Repeat([]byte("x"), externalChunkThreshold*3+17)
	require.NoError(t, f.WriteContent(ctx, fr, store, data))
	require.NotNil(t, f.content.External)
	require.Equal(t, 4, f.content.External.BlockCount)
	require.Equal(t, f.header.BareName.Bytes(), f.content.External.BaseName)

	got, err := f.GetContent(ctx, store)
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, got))
}

func TestFileInlineContentStaysInline(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()

	fr := forest.New(store)
	f, err := NewFile(namefilter.Empty(), 1000)
	require.NoError(t, err)
	require.NoError(t, f.WriteContent(ctx, fr, store, []byte("small")))
	require.NotNil(t, f.content.Inline)
	require.Nil(t, f.content.External)

	got, err := f.GetContent(ctx, store)
	require.NoError(t, err)
	require.Equal(t, "small", string(got))
}

func TestWriteSymlinkCreatesSymlinkFile(t *testing.T) {
	ctx := context.Background()
	store := blockstore.NewMemoryStore()

	root, err := NewDirectory(namefilter.Empty(), 1000)
	require.NoError(t, err)
	f := forest.New(store)

	root, err = root.WriteSymlink(ctx, []string{"link"}, 1001, "/target/path", f, store)
	require.NoError(t, err)

	link, ok := root.entries["link"]
	require.True(t, ok)
	node, err := link.ResolveNode(ctx, f, store)
	require.NoError(t, err)
	file, ok := AsFile(node)
	require.True(t, ok)
	require.True(t, file.IsSymlink())
	require.Equal(t, "/target/path", file.SymlinkTarget())
}
