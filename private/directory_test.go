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

func newTestTree(t *testing.T) (*Directory, *forest.Forest, blockstore.Store) {
	t.Helper()
	store := blockstore.NewMemoryStore()
	f := forest.New(store)
	root, err := NewDirectory(namefilter.Empty(), 1000)
	require.NoError(t, err)
	return root, f, store
}

func TestBasicWriteRead(t *testing.T) {
	ctx := context.Background()
	root, f, store := newTestTree(t)

	root, err := root.Write(ctx, []string{"text.txt"}, 1001, []byte("Hello, World!"), f, store)
	require.NoError(t, err)

	got, err := root.Read(ctx, []string{"text.txt"}, false, f, store)
	require.NoError(t, err)
	require.Equal(t, "Hello, World!", string(got))
}

func TestLsAfterMixedMkdirWrite(t *testing.T) {
	ctx := context.Background()
	root, f, store := newTestTree(t)

	root, err := root.Mkdir(ctx, []string{"code", "bin"}, 1001, f, store)
	require.NoError(t, err)
	root, err = root.Write(ctx, []string{"code", "hello.py"}, 1002, []byte("print('hello world')"), f, store)
	require.NoError(t, err)

	codeDir, status, _, err := root.GetLeafDir(ctx, []string{"code"}, false, f, store)
	require.NoError(t, err)
	require.Equal(t, WalkFound, status)
	require.Equal(t, []string{"bin", "hello.py"}, codeDir.Ls())
}

func TestRmRemovesSubtree(t *testing.T) {
	ctx := context.Background()
	root, f, store := newTestTree(t)

	root, err := root.Write(ctx, []string{"code", "python", "hello.py"}, 1001, []byte("x"), f, store)
	require.NoError(t, err)

	codeDir, status, _, err := root.GetLeafDir(ctx, []string{"code"}, false, f, store)
	require.NoError(t, err)
	require.Equal(t, WalkFound, status)
	require.Len(t, codeDir.Ls(), 1)

	root, err = root.Rm(ctx, []string{"code", "python"}, 1002, f, store)
	require.NoError(t, err)

	codeDir, status, _, err = root.GetLeafDir(ctx, []string{"code"}, false, f, store)
	require.NoError(t, err)
	require.Equal(t, WalkFound, status)
	require.Len(t, codeDir.Ls(), 0)

	_, err = root.Rm(ctx, []string{"code", "python"}, 1003, f, store)
	require.Error(t, err)
}

func TestSearchLatestSeesNewerWritesAcrossClones(t *testing.T) {
	ctx := context.Background()
	root, f, store := newTestTree(t)

	root, err := root.Write(ctx, []string{"f.txt"}, 1001, []byte("One"), f, store)
	require.NoError(t, err)
	ref, err := root.Store(ctx, f, store)
	require.NoError(t, err)

	oldNode, err := loadNode(ctx, f, store, ref)
	require.NoError(t, err)
	oldRoot, ok := AsDirectory(oldNode)
	require.True(t, ok)

	root, err = root.Write(ctx, []string{"f.txt"}, 1002, []byte("Two"), f, store)
	require.NoError(t, err)
	_, err = root.Store(ctx, f, store)
	require.NoError(t, err)

	got, err := oldRoot.Read(ctx, []string{"f.txt"}, true, f, store)
	require.NoError(t, err)
	require.Equal(t, "Two", string(got))

	got, err = oldRoot.Read(ctx, []string{"f.txt"}, false, f, store)
	require.NoError(t, err)
	require.Equal(t, "One", string(got))
}

func TestCpUpdatesAncestry(t *testing.T) {
	ctx := context.Background()
	root, f, store := newTestTree(t)

	root, err := root.Mkdir(ctx, []string{"pictures", "cats"}, 1001, f, store)
	require.NoError(t, err)
	root, err = root.Mkdir(ctx, []string{"images"}, 1002, f, store)
	require.NoError(t, err)

	picturesDir, status, _, err := root.GetLeafDir(ctx, []string{"pictures"}, false, f, store)
	require.NoError(t, err)
	require.Equal(t, WalkFound, status)

	root, err = root.Cp(ctx, []string{"pictures", "cats"}, []string{"images", "cats"}, 1003, false, f, store)
	require.NoError(t, err)

	imagesDir, status, _, err := root.GetLeafDir(ctx, []string{"images"}, false, f, store)
	require.NoError(t, err)
	require.Equal(t, WalkFound, status)

	catsLink, ok := imagesDir.entries["cats"]
	require.True(t, ok)
	catsNode, err := catsLink.ResolveNode(ctx, f, store)
	require.NoError(t, err)
	catsDir, ok := AsDirectory(catsNode)
	require.True(t, ok)

	require.True(t, catsDir.header.BareName.Superset(imagesDir.header.BareName))
	require.False(t, catsDir.header.BareName.Superset(picturesDir.header.BareName))
}

func TestMvIntoDescendantFails(t *testing.T) {
	ctx := context.Background()
	root, f, store := newTestTree(t)

	root, err := root.Mkdir(ctx, []string{"videos", "movies", "anime", "ghibli"}, 1001, f, store)
	require.NoError(t, err)

	_, err = root.BasicMv(ctx, []string{"videos", "movies"}, []string{"videos", "movies", "anime"}, 1002, false, f, store)
	require.Error(t, err)
}

func TestPreviousLinkGenerationRules(t *testing.T) {
	ctx := context.Background()
	root, f, store := newTestTree(t)

	fresh, err := NewDirectory(namefilter.Empty(), 1000)
	require.NoError(t, err)
	next, err := fresh.PrepareNextRevision()
	require.NoError(t, err)
	require.Same(t, fresh, next)
	require.Len(t, next.previous, 0)

	_, err = fresh.Store(ctx, f, store)
	require.NoError(t, err)
	rotated, err := fresh.PrepareNextRevision()
	require.NoError(t, err)
	require.Len(t, rotated.previous, 1)
}
