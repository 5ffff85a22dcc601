// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Writer - enqueue mutations
type Writer interface {
	Set(column *Column, key []byte, value []byte)
	Delete(column *Column, key []byte)
}

// Batch - mutations waiting for Store.Commit
//
// nothing is visible to readers until the commit
type Batch struct {
	operations []Operation
	sets       int
	deletes    int
	version    int
}

// NewBatch - an empty pending batch
func (s *Store) NewBatch() *Batch {
	return &Batch{}
}

// Set - store a key/value pair; both are copied
func (b *Batch) Set(column *Column, key []byte, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	b.operations = append(b.operations, Operation{
		Key:   column.prefixKey(key),
		Value: v,
	})
	b.sets += 1
}

// Delete - remove a key
func (b *Batch) Delete(column *Column, key []byte) {
	b.operations = append(b.operations, Operation{
		Delete: true,
		Key:    column.prefixKey(key),
	})
	b.deletes += 1
}

// SetVersion - record a new schema version in the same commit
func (b *Batch) SetVersion(version int) {
	b.version = version
}

// Version - the schema version this batch will record, 0 for none
func (b *Batch) Version() int {
	return b.version
}

// Len - number of column mutations
func (b *Batch) Len() int {
	return len(b.operations)
}

// Sets - number of set operations
func (b *Batch) Sets() int {
	return b.sets
}

// Deletes - number of delete operations
func (b *Batch) Deletes() int {
	return b.deletes
}

// Reset - discard everything
func (b *Batch) Reset() {
	b.operations = nil
	b.sets = 0
	b.deletes = 0
	b.version = 0
}
