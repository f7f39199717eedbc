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

package privatecbor

import (
	"fmt"

	"github.com/wnfs-go/wnfs/wnfserr"
)

// Version is the (major, minor, patch) triple stamped on every directory
// and file content block, per spec.md §6.
type Version struct {
	Major uint8 `cbor:"major"`
	Minor uint8 `cbor:"minor"`
	Patch uint8 `cbor:"patch"`
}

// CurrentVersion is the version this package writes.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// CheckSupported fails with wnfserr.UnexpectedVersion if v's (major, minor)
// doesn't match CurrentVersion's, per spec.md §6: "loaders must fail
// UnexpectedVersion on unsupported (major, minor)". Patch is not load-bearing.
func (v Version) CheckSupported() error {
	if v.Major != CurrentVersion.Major || v.Minor != CurrentVersion.Minor {
		return wnfserr.New(wnfserr.UnexpectedVersion, v.String())
	}
	return nil
}
