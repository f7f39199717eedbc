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
	"io/ioutil"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/wnfs-go/wnfs/log"
)

// HTTPServer is a reference implementation of the two §6 HTTP routes,
// backed by any Store, built on httprouter the way the teacher's own
// graphql/jsre-adjacent HTTP endpoints favor a lightweight router over
// net/http's default mux.
type HTTPServer struct {
	store  Store
	router *httprouter.Router
	log    log.Logger
}

// NewHTTPServer wraps store for serving over HTTP.
func NewHTTPServer(store Store) *HTTPServer {
	s := &HTTPServer{store: store, router: httprouter.New(), log: log.New("component", "blockstore/httpserver")}
	s.router.POST("/api/v0/block/put", s.handlePut)
	s.router.POST("/api/v0/block/get", s.handleGet)
	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) handlePut(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(MaxBlockSize * 2); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("data")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := ioutil.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cid, err := s.store.Put(r.Context(), CodecRaw, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Debug("served put", "cid", cid)
	w.Write([]byte(cid.String()))
}

func (s *HTTPServer) handleGet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	arg := r.URL.Query().Get("arg")
	cid, ok := parseCIDString(arg)
	if !ok {
		http.Error(w, "bad cid", http.StatusBadRequest)
		return
	}
	data, err := s.store.Get(r.Context(), cid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Write(data)
}

func parseCIDString(s string) (CID, bool) {
	if len(s) < 1 || s[0] != 'b' {
		return CID{}, false
	}
	raw := make([]byte, (len(s)-1)/2)
	for i := range raw {
		hi := hexVal(s[1+i*2])
		lo := hexVal(s[2+i*2])
		if hi < 0 || lo < 0 {
			return CID{}, false
		}
		raw[i] = byte(hi<<4 | lo)
	}
	return CIDFromBytes(raw)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}
