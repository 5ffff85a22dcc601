// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

type levelDBBackend struct {
	db *leveldb.DB
}

func openLevelDB(path string, readOnly bool) (Backend, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(path, opt)
	if nil != err {
		return nil, err
	}
	return &levelDBBackend{db: db}, nil
}

// a leveldb held entirely in memory, for tests and dry runs
func openMemory() (Backend, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return &levelDBBackend{db: db}, nil
}

func (l *levelDBBackend) Get(key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

func (l *levelDBBackend) Iterate(start []byte, limit []byte, f func(key []byte, value []byte) error) error {
	maxRange := ldb_util.Range{
		Start: start, // Start of key range, included in the range
		Limit: limit, // Limit of key range, excluded from the range
	}

	iter := l.db.NewIterator(&maxRange, nil)

	var err error
iterating:
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key))
		copy(dataKey, key)

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		err = f(dataKey, dataValue)
		if nil != err {
			break iterating
		}
	}
	iter.Release()
	if nil == err {
		err = iter.Error()
	}
	return err
}

func (l *levelDBBackend) Write(operations []Operation) error {
	batch := new(leveldb.Batch)
	for _, op := range operations {
		if op.Delete {
			batch.Delete(op.Key)
		} else {
			batch.Put(op.Key, op.Value)
		}
	}
	return l.db.Write(batch, &ldb_opt.WriteOptions{Sync: true})
}

func (l *levelDBBackend) Close() error {
	return l.db.Close()
}
