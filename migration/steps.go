// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package migration

import (
	"github.com/bitmark-inc/storemigrate/fault"
	"github.com/bitmark-inc/storemigrate/record"
	"github.com/bitmark-inc/storemigrate/reconcile"
	"github.com/bitmark-inc/storemigrate/refcount"
	"github.com/bitmark-inc/storemigrate/shard"
	"github.com/bitmark-inc/storemigrate/storage"
)

// the column whose refcounts are widened, State unless configured
func (m *Migrator) widenTarget() (*storage.Column, error) {
	if "" == m.options.WidenColumn {
		return m.store.Columns.State, nil
	}
	column, err := m.store.Columns.ByPrefix(m.options.WidenColumn)
	if nil != err {
		return nil, err
	}
	if !column.IsRefcounted() {
		return nil, fault.Wrap(fault.ErrInvalidColumn, "column: %s is not refcounted", column)
	}
	return column, nil
}

// rewrite 4 byte refcounts as 8 byte refcounts
//
// an entry too short to hold a narrow refcount is deleted
func (m *Migrator) widenRefcount(batch *storage.Batch) error {
	column, err := m.widenTarget()
	if nil != err {
		return err
	}

	widened := 0
	deleted := 0
	err = m.store.IterateRaw(column, func(key []byte, blob []byte) error {
		wide, ok := refcount.Widen(blob)
		if !ok {
			m.log.Warnf("%s: key: %x  length: %d  too short for refcount: deleted", column, key, len(blob))
			batch.Delete(column, key)
			deleted += 1
			return nil
		}
		batch.Set(column, key, wide)
		widened += 1
		return nil
	})
	if nil != err {
		return err
	}
	m.log.Infof("%s: widened: %d  deleted: %d", column, widened, deleted)
	return nil
}

// every transaction in a chunk, keyed by its hash
func transactionsOfChunk(key []byte, value []byte, emit func([]byte, *record.SignedTransaction)) error {
	chunk, err := record.UnpackChunk(value)
	if nil != err {
		return fault.Wrap(err, "chunk: %x", key)
	}
	for _, tx := range chunk.Transactions {
		hash := tx.Hash()
		emit(hash[:], tx)
	}
	return nil
}

func (m *Migrator) rebuildTransactions(batch *storage.Batch) error {
	c := m.store.Columns
	_, err := reconcile.Column(m.log, m.store, batch, c.Chunks, c.Transactions, transactionsOfChunk, m.reconcileOptions())
	return err
}

func (m *Migrator) rebuildReceiptToShard(batch *storage.Batch) error {
	c := m.store.Columns

	numShards, err := shard.NumShards(m.store, c.Blocks)
	if nil != err {
		return err
	}
	assigner, err := shard.NewAssigner(numShards)
	if nil != err {
		return err
	}
	m.log.Infof("shards: %d", numShards)

	receiptsOfList := func(key []byte, value []byte, emit func([]byte, record.ShardIndex)) error {
		list, err := record.UnpackReceiptList(value)
		if nil != err {
			return fault.Wrap(err, "outgoing receipts: %x", key)
		}
		for _, receipt := range list {
			emit(receipt.Id[:], assigner.Of(receipt.Receiver))
		}
		return nil
	}

	_, err = reconcile.Column(m.log, m.store, batch, c.OutgoingReceipts, c.ReceiptIdToShardId, receiptsOfList, m.reconcileOptions())
	return err
}

// delete every key of the retired column
func (m *Migrator) dropLegacyTransactions(batch *storage.Batch) error {
	column := m.store.Columns.LegacyTransactions
	err := m.store.IterateRaw(column, func(key []byte, value []byte) error {
		batch.Delete(column, key)
		return nil
	})
	if nil != err {
		return err
	}
	m.log.Infof("%s: deleted: %d", column, batch.Deletes())
	return nil
}

func (m *Migrator) reconcileOptions() reconcile.Options {
	return reconcile.Options{
		StrictPayloads: m.options.StrictPayloads,
	}
}
