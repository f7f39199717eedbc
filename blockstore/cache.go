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

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/wnfs-go/wnfs/log"
)

// CachedStore wraps any Store with a bounded read-through LRU and a
// singleflight group that collapses concurrent Gets for the same CID,
// which happens often during search_latest's exponential/binary probing
// (many goroutines probing neighboring ratchet steps tend to re-request
// the same ancestor header block).
type CachedStore struct {
	inner Store
	lru   *lru.Cache
	group singleflight.Group
	log   log.Logger
}

// NewCachedStore wraps inner with an LRU of the given entry capacity.
func NewCachedStore(inner Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{inner: inner, lru: c, log: log.New("component", "blockstore/cache")}, nil
}

func (c *CachedStore) Put(ctx context.Context, codec Codec, data []byte) (CID, error) {
	cid, err := c.inner.Put(ctx, codec, data)
	if err != nil {
		return CID{}, err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.lru.Add(string(cid.Key()), cp)
	return cid, nil
}

func (c *CachedStore) Get(ctx context.Context, cid CID) ([]byte, error) {
	key := string(cid.Key())
	if v, ok := c.lru.Get(key); ok {
		c.log.Debug("cache hit", "cid", cid)
		return v.([]byte), nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		data, err := c.inner.Get(ctx, cid)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *CachedStore) Has(ctx context.Context, cid CID) (bool, error) {
	if c.lru.Contains(string(cid.Key())) {
		return true, nil
	}
	return c.inner.Has(ctx, cid)
}
