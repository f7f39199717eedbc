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

// Command wnfs is a single-purpose CLI over the private filesystem,
// styled on the teacher's cmd/* tools: a gopkg.in/urfave/cli.v1 app with
// one subcommand per filesystem operation, plus an interactive console.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	log15 "github.com/inconshreveable/log15"
	"gopkg.in/urfave/cli.v1"

	"github.com/wnfs-go/wnfs/log"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML configuration file",
	}
	refFlag = cli.StringFlag{
		Name:  "ref",
		Value: ".wnfs-ref",
		Usage: "path to the file holding the current root capability",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "enable debug logging",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "wnfs"
	app.Usage = "a versioned, content-addressed, encrypted filesystem"
	app.Flags = []cli.Flag{configFlag, refFlag, verboseFlag}
	app.Before = func(ctx *cli.Context) error {
		if ctx.GlobalBool(verboseFlag.Name) {
			log.SetVerbosity(log15.LvlDebug)
		}
		return nil
	}
	app.Commands = []cli.Command{
		mkdirCommand,
		putCommand,
		getCommand,
		lsCommand,
		rmCommand,
		cpCommand,
		mvCommand,
		historyCommand,
		consoleCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
