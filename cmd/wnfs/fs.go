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

package main

import (
	"context"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/wnfs-go/wnfs/config"
	"github.com/wnfs-go/wnfs/private"
	"github.com/wnfs-go/wnfs/wnfs"
)

// loadConfig reads the --config file if given, otherwise runs on defaults.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	path := ctx.GlobalString(configFlag.Name)
	if path == "" {
		return config.Defaults(), nil
	}
	return config.LoadFile(path)
}

// openFS opens the block store named by config and mounts the filesystem
// named by the ref file, or an empty filesystem if the ref file doesn't
// exist yet.
func openFS(ctx *cli.Context) (*wnfs.FS, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := cfg.Store.OpenStore()
	if err != nil {
		return nil, err
	}

	refPath := ctx.GlobalString(refFlag.Name)
	data, err := ioutil.ReadFile(refPath)
	if os.IsNotExist(err) {
		return wnfs.New(store)
	}
	if err != nil {
		return nil, err
	}
	ref, err := private.DecodeRef(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, err
	}
	fsys, err := wnfs.New(store)
	if err != nil {
		return nil, err
	}
	mounted, err := wnfs.Mount(context.Background(), store, fsys.Forest(), ref)
	if err != nil {
		return nil, err
	}
	return mounted, nil
}

// commitFS persists fs's current root and writes the resulting capability
// to the ref file so the next invocation picks up where this one left off.
func commitFS(ctx *cli.Context, fsys *wnfs.FS) error {
	ref, err := fsys.Commit(context.Background())
	if err != nil {
		return err
	}
	refPath := ctx.GlobalString(refFlag.Name)
	return ioutil.WriteFile(refPath, []byte(private.EncodeRef(ref)), 0o600)
}

func splitPath(arg string) []string {
	arg = strings.Trim(arg, "/")
	if arg == "" {
		return nil
	}
	return strings.Split(arg, "/")
}

func now() int64 { return time.Now().Unix() }
