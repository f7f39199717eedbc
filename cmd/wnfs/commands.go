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
	"fmt"
	"io/ioutil"
	"os"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/wnfs-go/wnfs/wnfserr"
)

var searchLatestFlag = cli.BoolFlag{
	Name:  "latest",
	Usage: "advance to the latest known revision along the path before reading",
}

var mkdirCommand = cli.Command{
	Name:      "mkdir",
	Usage:     "create a directory",
	ArgsUsage: "<path>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return wnfserr.New(wnfserr.NotFound, "mkdir requires exactly one path argument")
		}
		fsys, err := openFS(ctx)
		if err != nil {
			return err
		}
		if err := fsys.Mkdir(context.Background(), splitPath(ctx.Args().Get(0)), now()); err != nil {
			return err
		}
		return commitFS(ctx, fsys)
	},
}

var putCommand = cli.Command{
	Name:      "put",
	Usage:     "write a local file's contents to a path",
	ArgsUsage: "<local-file> <path>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 2 {
			return wnfserr.New(wnfserr.NotFound, "put requires a local file and a destination path")
		}
		data, err := ioutil.ReadFile(ctx.Args().Get(0))
		if err != nil {
			return err
		}
		fsys, err := openFS(ctx)
		if err != nil {
			return err
		}
		if err := fsys.Write(context.Background(), splitPath(ctx.Args().Get(1)), now(), data); err != nil {
			return err
		}
		return commitFS(ctx, fsys)
	},
}

var getCommand = cli.Command{
	Name:      "get",
	Usage:     "print the contents stored at a path",
	ArgsUsage: "<path>",
	Flags:     []cli.Flag{searchLatestFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return wnfserr.New(wnfserr.NotFound, "get requires exactly one path argument")
		}
		fsys, err := openFS(ctx)
		if err != nil {
			return err
		}
		data, err := fsys.Read(context.Background(), splitPath(ctx.Args().Get(0)), ctx.Bool(searchLatestFlag.Name))
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var lsCommand = cli.Command{
	Name:      "ls",
	Usage:     "list a directory's entries",
	ArgsUsage: "[path]",
	Flags:     []cli.Flag{searchLatestFlag},
	Action: func(ctx *cli.Context) error {
		fsys, err := openFS(ctx)
		if err != nil {
			return err
		}
		path := ""
		if ctx.NArg() > 0 {
			path = ctx.Args().Get(0)
		}
		entries, err := fsys.Ls(context.Background(), splitPath(path), ctx.Bool(searchLatestFlag.Name))
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Type", "Mtime"})
		for _, e := range entries {
			kind := "file"
			if e.IsDir {
				kind = "dir"
			}
			table.Append([]string{e.Name, kind, fmt.Sprintf("%d", e.Metadata.UnixTimeMtime)})
		}
		table.Render()
		return nil
	},
}

var rmCommand = cli.Command{
	Name:      "rm",
	Usage:     "remove the entry at a path",
	ArgsUsage: "<path>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return wnfserr.New(wnfserr.NotFound, "rm requires exactly one path argument")
		}
		fsys, err := openFS(ctx)
		if err != nil {
			return err
		}
		if err := fsys.Rm(context.Background(), splitPath(ctx.Args().Get(0)), now()); err != nil {
			return err
		}
		return commitFS(ctx, fsys)
	},
}

var cpCommand = cli.Command{
	Name:      "cp",
	Usage:     "copy an entry, recomputing the copy's ancestry",
	ArgsUsage: "<src> <dst>",
	Flags:     []cli.Flag{searchLatestFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 2 {
			return wnfserr.New(wnfserr.NotFound, "cp requires a source and destination path")
		}
		fsys, err := openFS(ctx)
		if err != nil {
			return err
		}
		src, dst := splitPath(ctx.Args().Get(0)), splitPath(ctx.Args().Get(1))
		if err := fsys.Cp(context.Background(), src, dst, now(), ctx.Bool(searchLatestFlag.Name)); err != nil {
			return err
		}
		return commitFS(ctx, fsys)
	},
}

var mvCommand = cli.Command{
	Name:      "mv",
	Usage:     "move an entry",
	ArgsUsage: "<src> <dst>",
	Flags:     []cli.Flag{searchLatestFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 2 {
			return wnfserr.New(wnfserr.NotFound, "mv requires a source and destination path")
		}
		fsys, err := openFS(ctx)
		if err != nil {
			return err
		}
		src, dst := splitPath(ctx.Args().Get(0)), splitPath(ctx.Args().Get(1))
		if err := fsys.Mv(context.Background(), src, dst, now(), ctx.Bool(searchLatestFlag.Name)); err != nil {
			return err
		}
		return commitFS(ctx, fsys)
	},
}

var historyLimitFlag = cli.IntFlag{
	Name:  "limit",
	Value: 10,
	Usage: "maximum number of prior revisions to print",
}

var historyCommand = cli.Command{
	Name:      "history",
	Usage:     "print prior revisions of a file, most recent first",
	ArgsUsage: "<path>",
	Flags:     []cli.Flag{historyLimitFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return wnfserr.New(wnfserr.NotFound, "history requires exactly one path argument")
		}
		fsys, err := openFS(ctx)
		if err != nil {
			return err
		}
		revisions, err := fsys.History(context.Background(), splitPath(ctx.Args().Get(0)), ctx.Int(historyLimitFlag.Name))
		if err != nil {
			return err
		}
		for i, rev := range revisions {
			fmt.Printf("--- revision -%d ---\n%s\n", i+1, rev)
		}
		return nil
	},
}
