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

// Package log mirrors the teacher's own github.com/ethereum/go-ethereum/log
// package: a thin, structured wrapper around a root logger, here backed by
// github.com/inconshreveable/log15 (the library go-ethereum's log package
// itself wraps) instead of re-deriving one against the standard library's
// plain log.Logger.
package log

import (
	"os"

	log15 "github.com/inconshreveable/log15"
)

// Logger is the structured logging interface used throughout the module.
type Logger interface {
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
	New(ctx ...interface{}) Logger
}

type wrapped struct {
	l log15.Logger
}

func (w *wrapped) Debug(msg string, ctx ...interface{}) { w.l.Debug(msg, ctx...) }
func (w *wrapped) Info(msg string, ctx ...interface{})  { w.l.Info(msg, ctx...) }
func (w *wrapped) Warn(msg string, ctx ...interface{})  { w.l.Warn(msg, ctx...) }
func (w *wrapped) Error(msg string, ctx ...interface{}) { w.l.Error(msg, ctx...) }
func (w *wrapped) Crit(msg string, ctx ...interface{})  { w.l.Crit(msg, ctx...) }
func (w *wrapped) New(ctx ...interface{}) Logger        { return &wrapped{w.l.New(ctx...)} }

var root = &wrapped{log15.Root()}

func init() {
	root.l.SetHandler(log15.LvlFilterHandler(log15.LvlInfo, log15.StreamHandler(os.Stderr, log15.TerminalFormat())))
}

// Root returns the root logger.
func Root() Logger { return root }

// New creates a child logger with the given key-value context, the same
// pattern used by every component package below (forest, private, blockstore).
func New(ctx ...interface{}) Logger { return root.New(ctx...) }

// SetVerbosity adjusts the root handler's level, used by cmd/wnfs's --verbose flag.
func SetVerbosity(lvl log15.Lvl) {
	root.l.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(os.Stderr, log15.TerminalFormat())))
}

func Debug(msg string, ctx ...interface{}) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { root.Crit(msg, ctx...) }
