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

// Package wnfserr reifies the error taxonomy of the filesystem's external
// interface: every operation that can fail returns one of a closed set of
// tagged errors, following the teacher's convention of package-level
// sentinel errors (see ethdb/relaydb) extended with a wrapped cause so
// callers can still %w their way to the underlying fault.
package wnfserr

import (
	"errors"
	"fmt"
)

// Code identifies which member of the taxonomy an Error carries.
type Code int

const (
	_ Code = iota
	// NotFound indicates a requested CID or path component does not exist.
	NotFound
	// NotADirectory indicates a path operation expected a directory and found a file.
	NotADirectory
	// NotAFile indicates a path operation expected a file and found a directory.
	NotAFile
	// DirectoryAlreadyExists indicates mkdir/cp/mv would overwrite an existing directory.
	DirectoryAlreadyExists
	// FileAlreadyExists indicates a write would overwrite an existing file without basic_mv semantics.
	FileAlreadyExists
	// UnexpectedVersion indicates a decoded node carries an unsupported version tag.
	UnexpectedVersion
	// MaxBlockSizeExceeded indicates a block exceeds blockstore.MaxBlockSize.
	MaxBlockSizeExceeded
	// CryptoError indicates ratchet/namefilter/AEAD key material failed to verify or derive.
	CryptoError
	// DecodingError indicates a block's bytes did not parse as the expected CBOR shape.
	DecodingError
	// ContentCorrupted indicates stored content failed AEAD authentication or could not be reassembled (a missing chunk or a chunk count mismatch).
	ContentCorrupted
	// LockPoisoned indicates a concurrent mutation left shared forest/ratchet state inconsistent.
	LockPoisoned
	// TransportError indicates a block-store backend's network/disk operation failed.
	TransportError
)

func (c Code) String() string {
	switch c {
	case NotFound:
		return "not found"
	case NotADirectory:
		return "not a directory"
	case NotAFile:
		return "not a file"
	case DirectoryAlreadyExists:
		return "directory already exists"
	case FileAlreadyExists:
		return "file already exists"
	case UnexpectedVersion:
		return "unexpected version"
	case MaxBlockSizeExceeded:
		return "max block size exceeded"
	case CryptoError:
		return "crypto error"
	case DecodingError:
		return "decoding error"
	case ContentCorrupted:
		return "content corrupted"
	case LockPoisoned:
		return "lock poisoned"
	case TransportError:
		return "transport error"
	default:
		return "unknown error"
	}
}

// Error is a tagged error: a Code plus an optional wrapped cause and detail.
type Error struct {
	Code   Code
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Code, so callers can
// write errors.Is(err, wnfserr.New(wnfserr.NotFound, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New builds an Error with no wrapped cause.
func New(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

// Wrap builds an Error that wraps err as its cause.
func Wrap(code Code, detail string, err error) *Error {
	return &Error{Code: code, Detail: detail, Err: err}
}

// Is reports whether err (or any error it wraps) carries the given Code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

var (
	// ErrMaxBlockSize is the sentinel returned by blockstore.Put for oversized blocks.
	ErrMaxBlockSize = New(MaxBlockSizeExceeded, "block exceeds maximum size")
	// ErrNotFound is the sentinel returned by blockstore.Get for a missing CID.
	ErrNotFound = New(NotFound, "block not found")
)
