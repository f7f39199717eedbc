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
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
	"gopkg.in/urfave/cli.v1"

	"github.com/wnfs-go/wnfs/private"
	"github.com/wnfs-go/wnfs/wnfs"
)

// consoleCommand drops into an interactive prompt for issuing repeated
// filesystem operations against a single mounted FS, the way the teacher's
// console subcommand wraps a JS REPL around one running node. This one has
// no scripting language: it reads one filesystem verb per line.
var consoleCommand = cli.Command{
	Name:  "console",
	Usage: "start an interactive session against the mounted filesystem",
	Action: func(ctx *cli.Context) error {
		fsys, err := openFS(ctx)
		if err != nil {
			return err
		}
		c := newConsole(fsys)
		defer c.close()
		c.interactive(ctx)
		return commitFS(ctx, fsys)
	},
}

type console struct {
	fs     *wnfs.FS
	line   *liner.State
	out    io.Writer
	color  *color.Color
	histFn string
}

func newConsole(fsys *wnfs.FS) *console {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	histFn := filepath.Join(os.TempDir(), ".wnfs_console_history")
	if f, err := os.Open(histFn); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	return &console{
		fs:     fsys,
		line:   line,
		out:    colorable.NewColorable(os.Stdout),
		color:  color.New(color.FgCyan),
		histFn: histFn,
	}
}

func (c *console) close() {
	if f, err := os.Create(c.histFn); err == nil {
		c.line.WriteHistory(f)
		f.Close()
	}
	c.line.Close()
}

// interactive runs the read-eval-print loop until the user exits with
// "exit", EOF, or Ctrl-D.
func (c *console) interactive(ctx *cli.Context) {
	c.color.Fprintln(c.out, "wnfs console — type a filesystem command, or \"exit\" to quit")
	for {
		input, err := c.line.Prompt("wnfs> ")
		if err != nil {
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		c.line.AppendHistory(input)
		if input == "exit" || input == "quit" {
			return
		}
		if err := c.eval(ctx, input); err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		}
	}
}

func (c *console) eval(ctx *cli.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	background := context.Background()

	switch cmd {
	case "mkdir":
		if len(args) != 1 {
			return usageErr("mkdir <path>")
		}
		return c.fs.Mkdir(background, splitPath(args[0]), now())
	case "put":
		if len(args) != 2 {
			return usageErr("put <local-file> <path>")
		}
		data, err := ioutil.ReadFile(args[0])
		if err != nil {
			return err
		}
		return c.fs.Write(background, splitPath(args[1]), now(), data)
	case "get":
		if len(args) != 1 {
			return usageErr("get <path>")
		}
		data, err := c.fs.Read(background, splitPath(args[0]), false)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, string(data))
		return nil
	case "ls":
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		entries, err := c.fs.Ls(background, splitPath(path), false)
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(c.out)
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
	case "rm":
		if len(args) != 1 {
			return usageErr("rm <path>")
		}
		return c.fs.Rm(background, splitPath(args[0]), now())
	case "mv":
		if len(args) != 2 {
			return usageErr("mv <src> <dst>")
		}
		return c.fs.Mv(background, splitPath(args[0]), splitPath(args[1]), now(), false)
	case "cp":
		if len(args) != 2 {
			return usageErr("cp <src> <dst>")
		}
		return c.fs.Cp(background, splitPath(args[0]), splitPath(args[1]), now(), false)
	case "history":
		if len(args) != 1 {
			return usageErr("history <path>")
		}
		revisions, err := c.fs.History(background, splitPath(args[0]), 10)
		if err != nil {
			return err
		}
		for i, rev := range revisions {
			fmt.Fprintf(c.out, "--- revision -%d ---\n%s\n", i+1, rev)
		}
		return nil
	case "commit":
		ref, err := c.fs.Commit(background)
		if err != nil {
			return err
		}
		c.color.Fprintf(c.out, "committed: %s\n", private.EncodeRef(ref))
		return nil
	default:
		return usageErr(fmt.Sprintf("unrecognized command %q", cmd))
	}
}

func usageErr(msg string) error {
	return fmt.Errorf("usage: %s", msg)
}
