// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/storemigrate/fault"
)

// names of the available backends
const (
	LevelDB = "leveldb"
	Badger  = "badger"
	Memory  = "memory"
)

// Operation - one pending write
type Operation struct {
	Delete bool
	Key    []byte
	Value  []byte
}

// Backend - raw access to the underlying key/value database
type Backend interface {
	// Get returns nil, nil for a missing key
	Get(key []byte) ([]byte, error)

	// Iterate calls f for every key in [start, limit) in key order;
	// a nil limit means to the end. The slices passed to f are copies.
	Iterate(start []byte, limit []byte, f func(key []byte, value []byte) error) error

	// Write applies all operations atomically
	Write(operations []Operation) error

	Close() error
}

// open the backend selected by name
func openBackend(name string, path string, readOnly bool, log *logger.L) (Backend, error) {
	switch name {
	case LevelDB, "":
		return openLevelDB(path, readOnly)
	case Badger:
		return openBadger(path, readOnly, log)
	case Memory:
		return openMemory()
	default:
		return nil, fault.Wrap(fault.ErrUnknownBackend, "%q", name)
	}
}
