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
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/wnfs-go/wnfs/log"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// HTTPStore is an IPFS-compatible HTTP block-store client, per spec.md §6:
// POST /api/v0/block/put (multipart, field "data") and
// POST /api/v0/block/get?arg=<cid>. Outbound requests are throttled with
// golang.org/x/time/rate so a misbehaving search_latest probe storm can't
// saturate a remote gateway.
type HTTPStore struct {
	base    string
	client  *http.Client
	limiter *rate.Limiter
	log     log.Logger
}

// NewHTTPStore builds a client against an HTTP block-store server rooted
// at base, limiting outbound requests to ratePerSecond with a burst of the
// same size.
func NewHTTPStore(base string, ratePerSecond float64) *HTTPStore {
	if ratePerSecond <= 0 {
		ratePerSecond = 50
	}
	return &HTTPStore{
		base:    base,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)),
		log:     log.New("component", "blockstore/http", "base", base),
	}
}

func (h *HTTPStore) Put(ctx context.Context, codec Codec, data []byte) (CID, error) {
	if len(data) > MaxBlockSize {
		return CID{}, wnfserr.ErrMaxBlockSize
	}
	if err := h.limiter.Wait(ctx); err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "rate limit wait", err)
	}
	cid := NewCID(codec, data)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("data", "block")
	if err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "multipart create", err)
	}
	if _, err := part.Write(data); err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "multipart write", err)
	}
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+"/api/v0/block/put", &body)
	if err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "build request", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.client.Do(req)
	if err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "http put", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return CID{}, wnfserr.New(wnfserr.TransportError, fmt.Sprintf("http put status %d", resp.StatusCode))
	}
	h.log.Debug("put block", "cid", cid, "size", len(data))
	return cid, nil
}

func (h *HTTPStore) Get(ctx context.Context, cid CID) ([]byte, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "rate limit wait", err)
	}
	u := h.base + "/api/v0/block/get?arg=" + url.QueryEscape(cid.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "build request", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "http get", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, wnfserr.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, wnfserr.New(wnfserr.TransportError, fmt.Sprintf("http get status %d", resp.StatusCode))
	}
	return ioutil.ReadAll(resp.Body)
}

func (h *HTTPStore) Has(ctx context.Context, cid CID) (bool, error) {
	_, err := h.Get(ctx, cid)
	if err == nil {
		return true, nil
	}
	if wnfserr.Is(err, wnfserr.NotFound) {
		return false, nil
	}
	return false, err
}
