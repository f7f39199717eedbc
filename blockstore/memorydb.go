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
	"github.com/wnfs-go/wnfs/wnfserr"
)

// MemoryStore is an ephemeral, in-process Store backed by a plain map,
// the same role ethdb/memorydb plays for the teacher's state trie: the
// store every unit test in this module runs against.
type MemoryStore struct {
	lock sync.RWMutex
	db   map[string][]byte
	log  log.Logger
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		db:  make(map[string][]byte),
		log: log.New("component", "blockstore/memory"),
	}
}

func (m *MemoryStore) Put(ctx context.Context, codec Codec, data []byte) (CID, error) {
	if len(data) > MaxBlockSize {
		return CID{}, wnfserr.ErrMaxBlockSize
	}
	cid := NewCID(codec, data)
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.db[string(cid.Key())]; !ok {
		cp := make([]byte, len(data))
		copy(cp, data)
		m.db[string(cid.Key())] = cp
		m.log.Debug("put block", "cid", cid, "size", len(data))
	}
	return cid, nil
}

func (m *MemoryStore) Get(ctx context.Context, cid CID) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	data, ok := m.db[string(cid.Key())]
	if !ok {
		return nil, wnfserr.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Has(ctx context.Context, cid CID) (bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.db[string(cid.Key())]
	return ok, nil
}

// Len reports the number of distinct blocks held, used by forest GC tests.
func (m *MemoryStore) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.db)
}

// Delete removes a block outright. Only used by forest/gc.go sweeping
// orphaned blocks; the normal Store contract never deletes.
func (m *MemoryStore) Delete(cid CID) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.db, string(cid.Key()))
}

// Keys returns every CID currently held, used by forest/gc.go.
func (m *MemoryStore) Keys() []CID {
	m.lock.RLock()
	defer m.lock.RUnlock()
	out := make([]CID, 0, len(m.db))
	for k := range m.db {
		if cid, ok := keyToCID([]byte(k)); ok {
			out = append(out, cid)
		}
	}
	return out
}
