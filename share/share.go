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

// Package share documents the exchange-key sharing surface spec.md §6
// leaves unspecified beyond naming it: wrapping a PrivateRef's key material
// under a recipient's public exchange key (RSA or similar) so it can be
// published somewhere only that recipient can read. Out of scope per
// spec.md §1 ("sharing with an external coordinator"), so ExchangeKey has
// no implementation here, only the shape a future one would take.
package share

import "context"

// ExchangeKey is the interface an out-of-band key-exchange scheme (RSA-OAEP
// being the one spec.md §6 names) would implement to let a filesystem owner
// publish a capability to a specific recipient without a shared secret.
// Deliberately unimplemented: see DESIGN.md for why this stays a stub.
type ExchangeKey interface {
	// Wrap encrypts plaintext (a Ref or RevisionRef's key material) so
	// only the holder of the matching private exchange key can read it.
	Wrap(ctx context.Context, plaintext []byte) ([]byte, error)
	// Unwrap reverses Wrap.
	Unwrap(ctx context.Context, ciphertext []byte) ([]byte, error)
	// Fingerprint identifies this exchange key, e.g. for a recipient
	// directory entry naming which key a share was wrapped under.
	Fingerprint() string
}
