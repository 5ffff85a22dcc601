// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package shard_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/storemigrate/fault"
	"github.com/bitmark-inc/storemigrate/merkle"
	"github.com/bitmark-inc/storemigrate/record"
	"github.com/bitmark-inc/storemigrate/shard"
	"github.com/bitmark-inc/storemigrate/storage"
	"github.com/bitmark-inc/storemigrate/storage/mocks"
)

func TestFromDigest(t *testing.T) {
	d := merkle.Digest{0x03, 0x10}
	assert.Equal(t, uint64(0x1003), d.Prefix64(), "wrong prefix")
	assert.Equal(t, record.ShardIndex(3), shard.FromDigest(d, 4), "wrong shard")
	assert.Equal(t, record.ShardIndex(0), shard.FromDigest(d, 1), "single shard must be zero")
	assert.Equal(t, record.ShardIndex(0x1003%7), shard.FromDigest(d, 7), "wrong shard")
}

func TestOfAccount(t *testing.T) {
	account := record.AccountId("alice.near")
	d := merkle.NewDigest([]byte(account))

	for _, n := range []uint64{1, 2, 3, 4, 16, 1000} {
		expected := record.ShardIndex(d.Prefix64() % n)
		assert.Equal(t, expected, shard.Of(account, n), "wrong shard for count: %d", n)
		assert.Less(t, uint64(shard.Of(account, n)), n, "shard out of range")
	}
}

func TestNumShardsFromFirstBlock(t *testing.T) {
	s := memoryStore(t)

	four := &record.Block{
		Height:      7,
		ChunkHashes: []merkle.Digest{{1}, {2}, {3}, {4}},
	}
	two := &record.Block{
		Height:      8,
		ChunkHashes: []merkle.Digest{{5}, {6}},
	}

	// keys chosen so the four chunk block is first in key order
	batch := s.NewBatch()
	batch.Set(s.Columns.Blocks, []byte{0x10}, two.Pack())
	batch.Set(s.Columns.Blocks, []byte{0x01}, four.Pack())
	assert.Nil(t, s.Commit(batch), "commit error")

	n, err := shard.NumShards(s, s.Columns.Blocks)
	assert.Nil(t, err, "num shards error")
	assert.Equal(t, uint64(4), n, "wrong shard count")
}

func TestNumShardsNoBlocks(t *testing.T) {
	s := memoryStore(t)

	n, err := shard.NumShards(s, s.Columns.Blocks)
	assert.Nil(t, err, "num shards error")
	assert.Equal(t, uint64(1), n, "empty chain has one shard")
}

func TestNumShardsCorruptBlock(t *testing.T) {
	s := memoryStore(t)

	batch := s.NewBatch()
	batch.Set(s.Columns.Blocks, []byte{0x01}, []byte{0x7f, 0x00})
	assert.Nil(t, s.Commit(batch), "commit error")

	_, err := shard.NumShards(s, s.Columns.Blocks)
	assert.True(t, errors.Is(err, fault.ErrNotBlock), "corrupt block accepted: %v", err)
	assert.True(t, fault.IsErrRecord(err), "wrong error class")
}

func TestNumShardsBlockWithoutChunks(t *testing.T) {
	s := memoryStore(t)

	batch := s.NewBatch()
	batch.Set(s.Columns.Blocks, []byte{0x01}, (&record.Block{Height: 1}).Pack())
	assert.Nil(t, s.Commit(batch), "commit error")

	_, err := shard.NumShards(s, s.Columns.Blocks)
	assert.True(t, errors.Is(err, fault.ErrZeroShards), "zero shards accepted: %v", err)
}

func TestNumShardsReadError(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	blocks := &storage.Column{}
	failure := errors.New("disk on fire")

	r := mocks.NewMockReader(ctl)
	r.EXPECT().First(blocks).Return(storage.Element{}, false, failure).Times(1)

	_, err := shard.NumShards(r, blocks)
	assert.Equal(t, failure, err, "read error not returned")
}

func TestAssigner(t *testing.T) {
	_, err := shard.NewAssigner(0)
	assert.Equal(t, fault.ErrZeroShards, err, "zero shard count accepted")

	a, err := shard.NewAssigner(4)
	assert.Nil(t, err, "new assigner error")
	assert.Equal(t, uint64(4), a.NumShards(), "wrong shard count")

	accounts := []record.AccountId{"alice.near", "bob.near", "alice.near", "carol.near"}
	for _, account := range accounts {
		assert.Equal(t, shard.Of(account, 4), a.Of(account), "assigner disagrees for: %s", account)
	}
	assert.Equal(t, 3, a.Cached(), "wrong number of remembered accounts")

	a.Flush()
	assert.Equal(t, 0, a.Cached(), "flush did not forget")
	assert.Equal(t, shard.Of("bob.near", 4), a.Of("bob.near"), "wrong shard after flush")
}
