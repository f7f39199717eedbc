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

package namefilter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddContains(t *testing.T) {
	f := Empty()
	f.Add([]byte("inumber-a"))
	require.True(t, f.Contains([]byte("inumber-a")))
	require.False(t, f.Contains([]byte("inumber-b")))
}

func TestAddIsIdempotent(t *testing.T) {
	f := Empty()
	f.Add([]byte("x"))
	before := f
	f.Add([]byte("x"))
	require.Equal(t, before, f)
}

func TestUnionIsSuperset(t *testing.T) {
	parent := Empty()
	parent.Add([]byte("parent-inumber"))

	child := parent
	child.Add([]byte("child-inumber"))

	require.True(t, child.Superset(parent))
	require.True(t, child.Contains([]byte("parent-inumber")))
	require.True(t, child.Contains([]byte("child-inumber")))
}

func TestSaturateReachesTargetAndIsIdempotent(t *testing.T) {
	f := Empty()
	f.Add([]byte("only-element"))

	saturated := f.Saturate()
	require.GreaterOrEqual(t, saturated.Popcount(), SaturationTarget)
	require.True(t, saturated.Superset(f))

	again := saturated.Saturate()
	require.Equal(t, saturated, again)
}

func TestSaturateIsDeterministic(t *testing.T) {
	f := Empty()
	f.Add([]byte("deterministic-input"))

	a := f.Saturate()
	b := f.Saturate()
	require.Equal(t, a, b)
}

func TestBytesRoundTrip(t *testing.T) {
	f := Empty()
	f.Add([]byte("round-trip"))
	f2 := FromBytes(f.Bytes())
	require.Equal(t, f, f2)
}
