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
	"sync"

	"github.com/wnfs-go/wnfs/blockstore"
	"github.com/wnfs-go/wnfs/forest"
	"github.com/wnfs-go/wnfs/log"
)

// Prefetcher warms a directory's children concurrently before a caller
// that's about to walk most of them (an `ls -R`, a recursive copy) touches
// them one at a time. Adapted from core/state/trie_prefetcher.go's shape:
// a buffered request channel feeding a fixed worker pool, with a quit
// channel and WaitGroup for clean shutdown, generalized from account/
// storage trie nodes to private Links.
type Prefetcher struct {
	reqCh  chan *Link
	quitCh chan struct{}
	wg     sync.WaitGroup

	log log.Logger
}

// NewPrefetcher starts workers workers pulling Links off an internal queue
// and resolving them against f/store, discarding the result — resolution
// itself populates any caching store layer (blockstore.CachedStore,
// DiskStore's fastcache) a caller has wired in.
func NewPrefetcher(ctx context.Context, f *forest.Forest, store blockstore.Store, workers int) *Prefetcher {
	if workers < 1 {
		workers = 1
	}
	p := &Prefetcher{
		reqCh:  make(chan *Link, 200),
		quitCh: make(chan struct{}),
		log:    log.New("component", "private/prefetch"),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.loop(ctx, f, store)
	}
	return p
}

func (p *Prefetcher) loop(ctx context.Context, f *forest.Forest, store blockstore.Store) {
	defer p.wg.Done()
	for {
		select {
		case <-p.quitCh:
			return
		case link := <-p.reqCh:
			if link == nil {
				continue
			}
			if _, err := link.ResolveNode(ctx, f, store); err != nil {
				p.log.Debug("prefetch miss", "err", err)
			}
		}
	}
}

// Prefetch enqueues every entry of d for background resolution. Requests
// are dropped rather than blocking the caller if the queue is full —
// prefetching is a best-effort optimization, never a correctness
// requirement.
func (p *Prefetcher) Prefetch(d *Directory) {
	for _, link := range d.entries {
		select {
		case p.reqCh <- link:
		default:
			p.log.Debug("prefetch queue full, dropping request")
		}
	}
}

// Close stops every worker and waits for in-flight resolutions to finish.
func (p *Prefetcher) Close() {
	close(p.quitCh)
	p.wg.Wait()
}
