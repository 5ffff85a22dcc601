// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"

	"github.com/bitmark-inc/logger"
	"github.com/dgraph-io/badger/v2"
)

type badgerBackend struct {
	db *badger.DB
}

// route badger's internal messages to a logger channel
type badgerLogger struct {
	log *logger.L
}

func (b badgerLogger) Errorf(format string, arguments ...interface{}) {
	b.log.Errorf(format, arguments...)
}

func (b badgerLogger) Warningf(format string, arguments ...interface{}) {
	b.log.Warnf(format, arguments...)
}

func (b badgerLogger) Infof(format string, arguments ...interface{}) {
	b.log.Debugf(format, arguments...)
}

func (b badgerLogger) Debugf(format string, arguments ...interface{}) {
	b.log.Tracef(format, arguments...)
}

func openBadger(path string, readOnly bool, log *logger.L) (Backend, error) {
	opt := badger.DefaultOptions(path).
		WithReadOnly(readOnly).
		WithSyncWrites(true).
		WithLogger(badgerLogger{log: log})
	if "" == path {
		opt = opt.WithInMemory(true)
	}

	db, err := badger.Open(opt)
	if nil != err {
		return nil, err
	}
	return &badgerBackend{db: db}, nil
}

func (b *badgerBackend) Get(key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if badger.ErrKeyNotFound == err {
			return nil
		} else if nil != err {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

func (b *badgerBackend) Iterate(start []byte, limit []byte, f func(key []byte, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(start); iter.Valid(); iter.Next() {
			item := iter.Item()
			if nil != limit && bytes.Compare(item.Key(), limit) >= 0 {
				return nil
			}
			value, err := item.ValueCopy(nil)
			if nil != err {
				return err
			}
			if err := f(item.KeyCopy(nil), value); nil != err {
				return err
			}
		}
		return nil
	})
}

// all operations go into one transaction; a batch too large for a
// single badger transaction fails with badger.ErrTxnTooBig
func (b *badgerBackend) Write(operations []Operation) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, op := range operations {
			var err error
			if op.Delete {
				err = txn.Delete(op.Key)
			} else {
				err = txn.Set(op.Key, op.Value)
			}
			if nil != err {
				return err
			}
		}
		return nil
	})
}

func (b *badgerBackend) Close() error {
	return b.db.Close()
}
