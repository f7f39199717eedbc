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

	"github.com/VictoriaMetrics/fastcache"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"

	"github.com/wnfs-go/wnfs/log"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// DiskStore persists blocks in a goleveldb database on disk, fronted by a
// fastcache hot-block cache — the same pairing go-ethereum uses in front
// of its trie/state database, reused here in front of the block store.
type DiskStore struct {
	db    *leveldb.DB
	cache *fastcache.Cache
	log   log.Logger
}

// OpenDiskStore opens (or creates) a leveldb database at dir, with an
// in-memory fastcache of cacheSizeBytes fronting it.
func OpenDiskStore(dir string, cacheSizeBytes int) (*DiskStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "open leveldb", err)
	}
	if cacheSizeBytes <= 0 {
		cacheSizeBytes = 32 * 1024 * 1024
	}
	return &DiskStore{
		db:    db,
		cache: fastcache.New(cacheSizeBytes),
		log:   log.New("component", "blockstore/disk", "dir", dir),
	}, nil
}

func (d *DiskStore) Close() error { return d.db.Close() }

func (d *DiskStore) Put(ctx context.Context, codec Codec, data []byte) (CID, error) {
	if len(data) > MaxBlockSize {
		return CID{}, wnfserr.ErrMaxBlockSize
	}
	cid := NewCID(codec, data)
	key := cid.Key()
	if d.cache.Has(key) {
		return cid, nil
	}
	if has, err := d.db.Has(key, nil); err == nil && has {
		d.cache.Set(key, data)
		return cid, nil
	}
	if err := d.db.Put(key, data, nil); err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "leveldb put", err)
	}
	d.cache.Set(key, data)
	d.log.Debug("put block", "cid", cid, "size", len(data))
	return cid, nil
}

func (d *DiskStore) Get(ctx context.Context, cid CID) ([]byte, error) {
	key := cid.Key()
	if data, ok := d.cache.HasGet(nil, key); ok {
		return data, nil
	}
	data, err := d.db.Get(key, nil)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, wnfserr.ErrNotFound
		}
		return nil, wnfserr.Wrap(wnfserr.TransportError, "leveldb get", err)
	}
	d.cache.Set(key, data)
	return data, nil
}

func (d *DiskStore) Has(ctx context.Context, cid CID) (bool, error) {
	key := cid.Key()
	if d.cache.Has(key) {
		return true, nil
	}
	has, err := d.db.Has(key, nil)
	if err != nil {
		return false, wnfserr.Wrap(wnfserr.TransportError, "leveldb has", err)
	}
	return has, nil
}
