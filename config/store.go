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
	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/wnfserr"
)

func unknownBackendErr(backend BlockStoreBackend) error {
	return wnfserr.New(wnfserr.DecodingError, "unknown store backend: "+string(backend))
}

// OpenStore builds the block-store backend StoreConfig names, fronted by a
// blockstore.CachedStore when CacheEntries is set.
func (c StoreConfig) OpenStore() (blockstore.Store, error) {
	var backend blockstore.Store
	switch c.Backend {
	case "", BackendMemory:
		backend = blockstore.NewMemoryStore()
	case BackendDisk:
		d, err := blockstore.OpenDiskStore(c.DiskPath, c.DiskCacheBytes)
		if err != nil {
			return nil, err
		}
		backend = d
	case BackendS3:
		s, err := blockstore.NewS3Store(c.S3Bucket, c.S3Prefix)
		if err != nil {
			return nil, err
		}
		backend = s
	case BackendHTTP:
		backend = blockstore.NewHTTPStore(c.HTTPBaseURL, c.HTTPRatePerSec)
	default:
		return nil, unknownBackendErr(c.Backend)
	}

	if c.CacheEntries <= 0 {
		return backend, nil
	}
	return blockstore.NewCachedStore(backend, c.CacheEntries)
}
