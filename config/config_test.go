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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsAreMemoryBacked(t *testing.T) {
	d := Defaults()
	require.Equal(t, BackendMemory, d.Store.Backend)
	require.NoError(t, d.Validate())
}

func TestLoadOverridesStoreSection(t *testing.T) {
	doc := `
[Store]
backend = "disk"
disk_path = "/var/lib/wnfs"
cache_entries = 8192
`
	cfg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, BackendDisk, cfg.Store.Backend)
	require.Equal(t, "/var/lib/wnfs", cfg.Store.DiskPath)
	require.Equal(t, 8192, cfg.Store.CacheEntries)
	// Unset sections keep their defaults.
	require.Equal(t, uint64(1<<16), cfg.Forest.BloomEntries)
}

func TestValidateRejectsProtocolConstantOverride(t *testing.T) {
	doc := `
[Crypto]
saturation_target = 600
`
	cfg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Error(t, cfg.Validate())
}
