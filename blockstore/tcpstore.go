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
	"bufio"
	"context"
	"io"
	"net"

	"github.com/wnfs-go/wnfs/log"
	"github.com/wnfs-go/wnfs/wnfserr"
)

// Wire opcodes for the TCP block-store protocol, spec.md §6: each request
// is opcode(1) || cid_len(1) || cid_bytes || payload?.
const (
	opWrite byte = 0
	opRead  byte = 1
)

const ackByte = 0x01

// TCPStore is a client for the length-prefixed TCP block-store protocol.
// One connection is dialed per call; simple, at the cost of per-call
// handshake overhead, matching the protocol's minimal framing (no
// connection-level negotiation is specified).
type TCPStore struct {
	addr string
	log  log.Logger
}

// NewTCPStore builds a client dialing addr for every operation.
func NewTCPStore(addr string) *TCPStore {
	return &TCPStore{addr: addr, log: log.New("component", "blockstore/tcp", "addr", addr)}
}

func writeFrame(w io.Writer, op byte, cid CID, payload []byte) error {
	cidBytes := cid.Bytes()
	if len(cidBytes) > 255 {
		return wnfserr.New(wnfserr.TransportError, "cid too long for 1-byte length prefix")
	}
	header := []byte{op, byte(len(cidBytes))}
	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write(cidBytes); err != nil {
		return err
	}
	if payload != nil {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

func (t *TCPStore) Put(ctx context.Context, codec Codec, data []byte) (CID, error) {
	if len(data) > MaxBlockSize {
		return CID{}, wnfserr.ErrMaxBlockSize
	}
	cid := NewCID(codec, data)
	conn, err := net.Dial("tcp", t.addr)
	if err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "dial", err)
	}
	defer conn.Close()

	if err := writeFrame(conn, opWrite, cid, data); err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "write frame", err)
	}
	// The server reads the payload until EOF, so half-close before the ack.
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil {
			return CID{}, wnfserr.Wrap(wnfserr.TransportError, "close write", err)
		}
	}
	ack := make([]byte, 1)
	if _, err := io.ReadFull(conn, ack); err != nil {
		return CID{}, wnfserr.Wrap(wnfserr.TransportError, "read ack", err)
	}
	if ack[0] != ackByte {
		return CID{}, wnfserr.New(wnfserr.TransportError, "server rejected write")
	}
	t.log.Debug("put block", "cid", cid, "size", len(data))
	return cid, nil
}

func (t *TCPStore) Get(ctx context.Context, cid CID) ([]byte, error) {
	conn, err := net.Dial("tcp", t.addr)
	if err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "dial", err)
	}
	defer conn.Close()

	if err := writeFrame(conn, opRead, cid, nil); err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "write frame", err)
	}
	data, err := io.ReadAll(bufio.NewReader(conn))
	if err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "read body", err)
	}
	if len(data) == 0 {
		return nil, wnfserr.ErrNotFound
	}
	return data, nil
}

func (t *TCPStore) Has(ctx context.Context, cid CID) (bool, error) {
	_, err := t.Get(ctx, cid)
	if err == nil {
		return true, nil
	}
	if wnfserr.Is(err, wnfserr.NotFound) {
		return false, nil
	}
	return false, err
}

// TCPServer serves the TCP block-store protocol over a Store.
type TCPServer struct {
	store    Store
	listener net.Listener
	log      log.Logger
}

// ListenTCPServer binds addr and returns a TCPServer ready for Serve.
func ListenTCPServer(addr string, store Store) (*TCPServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, wnfserr.Wrap(wnfserr.TransportError, "listen", err)
	}
	return &TCPServer{store: store, listener: ln, log: log.New("component", "blockstore/tcpserver", "addr", addr)}, nil
}

func (s *TCPServer) Addr() net.Addr { return s.listener.Addr() }

// Serve accepts connections until the listener is closed.
func (s *TCPServer) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handle(conn)
	}
}

func (s *TCPServer) Close() error { return s.listener.Close() }

func (s *TCPServer) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	header := make([]byte, 2)
	if _, err := io.ReadFull(r, header); err != nil {
		return
	}
	op, cidLen := header[0], int(header[1])
	cidBytes := make([]byte, cidLen)
	if _, err := io.ReadFull(r, cidBytes); err != nil {
		return
	}
	cid, ok := CIDFromBytes(cidBytes)
	if !ok {
		return
	}

	ctx := context.Background()
	switch op {
	case opWrite:
		data, err := io.ReadAll(r)
		if err != nil {
			return
		}
		if _, err := s.store.Put(ctx, cid.Codec, data); err != nil {
			s.log.Warn("tcp put failed", "cid", cid, "err", err)
			return
		}
		conn.Write([]byte{ackByte})
	case opRead:
		data, err := s.store.Get(ctx, cid)
		if err != nil {
			return
		}
		conn.Write(data)
	}
}
