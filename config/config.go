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

// Package config loads the TOML configuration file cmd/wnfs reads at
// startup, in the same style as the teacher's cmd/geth/config.go: a
// naoina/toml decoder configured with a snake_case field-name function, a
// Config struct with nested sections, and a LoadFile helper that leaves
// unset fields at their documented defaults.
package config

import (
	"io"
	"os"
	"reflect"
	"strings"
	"unicode"

	"github.com/naoina/toml"

	"github.com/wnfs-go/wnfs/wnfserr"
)

var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return strings.ToLower(strings.ReplaceAll(key, "_", ""))
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return fieldKeyToSnake(field)
	},
	MissingField: func(rt reflect.Type, field string) error {
		return nil
	},
}

func fieldKeyToSnake(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// BlockStoreBackend selects which blockstore.Store implementation wnfs
// opens at startup.
type BlockStoreBackend string

const (
	BackendMemory BlockStoreBackend = "memory"
	BackendDisk   BlockStoreBackend = "disk"
	BackendS3     BlockStoreBackend = "s3"
	BackendHTTP   BlockStoreBackend = "http"
)

// StoreConfig selects and sizes the block-store backend stack: one
// backend (memory/disk/s3/http), optionally fronted by an LRU
// (blockstore.CachedStore).
type StoreConfig struct {
	Backend        BlockStoreBackend `toml:",omitempty"`
	DiskPath       string            `toml:",omitempty"`
	S3Bucket       string            `toml:",omitempty"`
	S3Prefix       string            `toml:",omitempty"`
	HTTPBaseURL    string            `toml:",omitempty"`
	HTTPRatePerSec float64           `toml:",omitempty"`
	CacheEntries   int               `toml:",omitempty"`
	DiskCacheBytes int               `toml:",omitempty"`
}

// ForestConfig describes sizing for the private forest's label bloom
// filter. forest.New does not read it: the bloom is always sized for 1<<16
// labels at a 0.001 false-positive rate.
type ForestConfig struct {
	BloomEntries       uint64  `toml:",omitempty"`
	BloomFalsePositive float64 `toml:",omitempty"`
}

// CryptoConfig surfaces the namefilter/ratchet constants a deployment can
// observe but never override — spec.md fixes these exactly, so the only
// legitimate use of this section is an operator sanity check against the
// binary's compiled-in values (see Validate).
type CryptoConfig struct {
	NamefilterBits   int `toml:",omitempty"`
	NamefilterK      int `toml:",omitempty"`
	SaturationTarget int `toml:",omitempty"`
	RatchetRadix     int `toml:",omitempty"`
}

// Config is the full, on-disk wnfs configuration.
type Config struct {
	Store  StoreConfig
	Forest ForestConfig
	Crypto CryptoConfig
}

// Defaults returns the configuration wnfs runs with if no file is loaded.
func Defaults() Config {
	return Config{
		Store: StoreConfig{
			Backend:        BackendMemory,
			CacheEntries:   4096,
			DiskCacheBytes: 16 << 20,
			HTTPRatePerSec: 10,
		},
		Forest: ForestConfig{
			BloomEntries:       1 << 16,
			BloomFalsePositive: 0.001,
		},
		Crypto: CryptoConfig{
			NamefilterBits:   1024,
			NamefilterK:      30,
			SaturationTarget: 512,
			RatchetRadix:     256,
		},
	}
}

// LoadFile reads and decodes a TOML config file, starting from Defaults
// so a file that only overrides a few fields leaves the rest untouched.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, wnfserr.Wrap(wnfserr.TransportError, "open config file", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a TOML config document from r.
func Load(r io.Reader) (Config, error) {
	cfg := Defaults()
	if err := tomlSettings.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, wnfserr.Wrap(wnfserr.DecodingError, "decode toml config", err)
	}
	return cfg, nil
}

// Validate reports an error if the crypto section has been edited away
// from the protocol-fixed constants it documents.
func (c Config) Validate() error {
	d := Defaults()
	if c.Crypto.NamefilterBits != 0 && c.Crypto.NamefilterBits != d.Crypto.NamefilterBits {
		return wnfserr.New(wnfserr.UnexpectedVersion, "namefilter_bits is protocol-fixed and cannot be overridden")
	}
	if c.Crypto.NamefilterK != 0 && c.Crypto.NamefilterK != d.Crypto.NamefilterK {
		return wnfserr.New(wnfserr.UnexpectedVersion, "namefilter_k is protocol-fixed and cannot be overridden")
	}
	if c.Crypto.SaturationTarget != 0 && c.Crypto.SaturationTarget != d.Crypto.SaturationTarget {
		return wnfserr.New(wnfserr.UnexpectedVersion, "saturation_target is protocol-fixed and cannot be overridden")
	}
	if c.Crypto.RatchetRadix != 0 && c.Crypto.RatchetRadix != d.Crypto.RatchetRadix {
		return wnfserr.New(wnfserr.UnexpectedVersion, "ratchet_radix is protocol-fixed and cannot be overridden")
	}
	return nil
}
