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
	"sync"

	"github.com/wnfs-go/wnfs/log"
)

// TieredStore relays lookups to a fast primary store, falling back to a
// slower secondary on miss and backfilling the primary so the next lookup
// for the same CID hits it — adapted from ethdb/relaydb's Database, which
// plays the same primary/secondary relay role for the trie database.
// Unlike relaydb, Put and Has are fully supported here: content addressing
// makes Put idempotent, so there is no "primary is read-only" constraint
// to preserve.
type TieredStore struct {
	primary   Store
	secondary Store

	lock   sync.Mutex
	hits   int
	misses int
	log    log.Logger
}

// NewTieredStore builds a TieredStore, e.g. a MemoryStore
// in front of an S3Store or HTTPStore, so repeated reads of the same
// ancestry chain during search_latest don't round-trip to the network.
func NewTieredStore(primary, secondary Store) *TieredStore {
	return &TieredStore{
		primary:   primary,
		secondary: secondary,
		log:       log.New("component", "blockstore/tiered"),
	}
}

func (db *TieredStore) Put(ctx context.Context, codec Codec, data []byte) (CID, error) {
	cid, err := db.secondary.Put(ctx, codec, data)
	if err != nil {
		return CID{}, err
	}
	if _, err := db.primary.Put(ctx, codec, data); err != nil {
		db.log.Warn("primary put failed, block only in secondary", "cid", cid, "err", err)
	}
	return cid, nil
}

func (db *TieredStore) Get(ctx context.Context, cid CID) ([]byte, error) {
	if data, err := db.primary.Get(ctx, cid); err == nil {
		db.lock.Lock()
		db.hits++
		db.lock.Unlock()
		return data, nil
	}
	db.lock.Lock()
	db.misses++
	db.lock.Unlock()

	data, err := db.secondary.Get(ctx, cid)
	if err != nil {
		return nil, err
	}
	if _, err := db.primary.Put(ctx, cid.Codec, data); err != nil {
		db.log.Warn("primary backfill failed", "cid", cid, "err", err)
	}
	return data, nil
}

func (db *TieredStore) Has(ctx context.Context, cid CID) (bool, error) {
	if ok, err := db.primary.Has(ctx, cid); err == nil && ok {
		return true, nil
	}
	return db.secondary.Has(ctx, cid)
}

// Efficiency reports cumulative primary hit/miss counts, the same
// diagnostic relaydb.Database.Efficiency exposed.
func (db *TieredStore) Efficiency() (hits, misses int) {
	db.lock.Lock()
	defer db.lock.Unlock()
	return db.hits, db.misses
}
