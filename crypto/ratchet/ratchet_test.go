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

package ratchet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIncByMatchesRepeatedInc(t *testing.T) {
	seed := [32]byte{1, 2, 3}
	a := Zero(seed)
	b := Zero(seed)

	for i := 0; i < 530; i++ {
		a.Inc()
	}
	b.IncBy(530)

	require.True(t, a.Equal(b))
	require.Equal(t, a.Export(), b.Export())
}

func TestCompareFindsForwardDistance(t *testing.T) {
	seed := [32]byte{9, 9, 9}
	r0 := Zero(seed)
	ahead := r0
	ahead.IncBy(7)

	n, ok := Compare(r0, ahead, 100)
	require.True(t, ok)
	require.Equal(t, int64(7), n)
}

func TestCompareUnreachableWithinBudget(t *testing.T) {
	seed := [32]byte{4, 4, 4}
	r0 := Zero(seed)
	farAhead := r0
	farAhead.IncBy(50)

	_, ok := Compare(r0, farAhead, 10)
	require.False(t, ok)
}

func TestExportChangesEveryStep(t *testing.T) {
	seed := [32]byte{7}
	r := Zero(seed)
	e0 := r.Export()
	r.Inc()
	e1 := r.Export()
	require.NotEqual(t, e0, e1)
}

func TestBytesRoundTrip(t *testing.T) {
	seed := [32]byte{5, 5}
	r := Zero(seed)
	r.IncBy(300)

	r2, ok := FromBytes(r.Bytes())
	require.True(t, ok)
	require.True(t, r.Equal(r2))
}
