// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/storemigrate/fault"
	"github.com/bitmark-inc/storemigrate/refcount"
)

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// Reader - ordered scans over a column
type Reader interface {
	// Iterate strips the refcount of refcounted columns and skips
	// entries whose count is not positive
	Iterate(column *Column, f func(key []byte, value []byte) error) error

	// IterateRaw passes the stored bytes unchanged
	IterateRaw(column *Column, f func(key []byte, value []byte) error) error

	// First returns the element with the lowest key
	First(column *Column) (Element, bool, error)
}

// internal marker to end an iteration early
type stopError string

func (e stopError) Error() string { return string(e) }

const errStop = stopError("stop")

// IterateRaw - run a function on all elements of a column
//
// keys have the prefix stripped; iteration stops on the first error
func (s *Store) IterateRaw(column *Column, f func(key []byte, value []byte) error) error {
	s.RLock()
	defer s.RUnlock()

	if nil == s.backend {
		return fault.ErrStoreClosed
	}

	return s.backend.Iterate([]byte{column.prefix}, column.limit, func(key []byte, value []byte) error {
		return f(key[1:], value)
	})
}

// Iterate - run a function on all live values of a column
func (s *Store) Iterate(column *Column, f func(key []byte, value []byte) error) error {
	if !column.refcounted {
		return s.IterateRaw(column, f)
	}
	return s.IterateRaw(column, func(key []byte, blob []byte) error {
		value, count, err := refcount.Decode(blob, refcount.Wide)
		if nil != err {
			return fault.Wrap(err, "column: %s  key: %x", column, key)
		}
		if count <= 0 {
			return nil
		}
		return f(key, value)
	})
}

// First - the first element of a column in key order
func (s *Store) First(column *Column) (Element, bool, error) {
	result := Element{}
	found := false
	err := s.IterateRaw(column, func(key []byte, value []byte) error {
		result.Key = key
		result.Value = value
		found = true
		return errStop
	})
	if errStop == err {
		err = nil
	}
	return result, found, err
}
