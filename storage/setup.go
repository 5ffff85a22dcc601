// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/storemigrate/fault"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

// first key after the version area, start of all column data
var columnsStart = []byte{0x01}

// Configuration - where the database is and how to open it
type Configuration struct {
	Backend string `gluamapper:"backend" json:"backend"`
	Path    string `gluamapper:"path" json:"path"`
}

// Store - an open column store
//
// every migration step receives the store explicitly; nothing in this
// package keeps a global handle
type Store struct {
	sync.RWMutex
	log      *logger.L
	backend  Backend
	readOnly bool
	Columns  Columns
}

// Open - open up the database
func Open(configuration Configuration, readOnly bool, log *logger.L) (*Store, error) {
	columns, err := NewColumns()
	if nil != err {
		return nil, err
	}

	backend, err := openBackend(configuration.Backend, configuration.Path, readOnly, log)
	if nil != err {
		log.Errorf("open backend: %q  path: %q  error: %s", configuration.Backend, configuration.Path, err)
		return nil, err
	}

	log.Infof("opened backend: %q  path: %q  read only: %v", configuration.Backend, configuration.Path, readOnly)

	return &Store{
		log:      log,
		backend:  backend,
		readOnly: readOnly,
		Columns:  columns,
	}, nil
}

// Close - close the database
func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()

	if nil == s.backend {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	s.log.Info("closed")
	return err
}

// IsReadOnly - true if commits are refused
func (s *Store) IsReadOnly() bool {
	return s.readOnly
}

// Version - the stored schema version, 0 if never set
func (s *Store) Version() (int, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.backend {
		return 0, fault.ErrStoreClosed
	}

	versionValue, err := s.backend.Get(versionKey)
	if nil != err {
		return 0, err
	}
	if nil == versionValue {
		return 0, nil
	}
	if 4 != len(versionValue) {
		return 0, fault.Wrap(fault.ErrDatabaseVersionLength, "expected: %d  actual: %d", 4, len(versionValue))
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

// IsEmpty - true if no column holds any data
func (s *Store) IsEmpty() (bool, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.backend {
		return false, fault.ErrStoreClosed
	}

	found := false
	err := s.backend.Iterate(columnsStart, nil, func(key []byte, value []byte) error {
		found = true
		return errStop
	})
	if errStop == err {
		err = nil
	}
	return !found, err
}

// Get - read a raw value, nil if the key does not exist
func (s *Store) Get(column *Column, key []byte) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.backend {
		return nil, fault.ErrStoreClosed
	}
	return s.backend.Get(column.prefixKey(key))
}

// Commit - apply a pending batch atomically
//
// the batch is reset afterwards so it cannot be applied twice
func (s *Store) Commit(batch *Batch) error {
	s.Lock()
	defer s.Unlock()

	if nil == s.backend {
		return fault.ErrStoreClosed
	}
	if s.readOnly {
		return fault.ErrReadOnly
	}

	operations := batch.operations
	if 0 != batch.version {
		v := make([]byte, 4)
		binary.BigEndian.PutUint32(v, uint32(batch.version))
		operations = append(operations, Operation{Key: versionKey, Value: v})
	}

	if 0 == len(operations) {
		return nil
	}

	err := s.backend.Write(operations)
	if nil != err {
		s.log.Errorf("commit: %d operations  error: %s", len(operations), err)
		return err
	}
	s.log.Debugf("commit: sets: %d  deletes: %d  version: %d", batch.sets, batch.deletes, batch.version)
	batch.Reset()
	return nil
}
