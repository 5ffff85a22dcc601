// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package shard

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/storemigrate/fault"
	"github.com/bitmark-inc/storemigrate/merkle"
	"github.com/bitmark-inc/storemigrate/record"
	"github.com/bitmark-inc/storemigrate/storage"
)

const (
	defaultExpiration = 10 * time.Minute
	cleanupInterval   = 20 * time.Minute
)

// NumShards - chunk count of the first block in key order
//
// an empty blocks column means a single shard
func NumShards(reader storage.Reader, blocks *storage.Column) (uint64, error) {
	first, found, err := reader.First(blocks)
	if nil != err {
		return 0, err
	}
	if !found {
		return 1, nil
	}

	block, err := record.UnpackBlock(first.Value)
	if nil != err {
		return 0, fault.Wrap(err, "first block: %x", first.Key)
	}

	n := uint64(len(block.ChunkHashes))
	if 0 == n {
		return 0, fault.Wrap(fault.ErrZeroShards, "first block: %x has no chunks", first.Key)
	}
	return n, nil
}

// FromDigest - shard selected by the first eight bytes of a digest
func FromDigest(digest merkle.Digest, numShards uint64) record.ShardIndex {
	return record.ShardIndex(digest.Prefix64() % numShards)
}

// Of - the shard of an account
func Of(account record.AccountId, numShards uint64) record.ShardIndex {
	return FromDigest(merkle.NewDigest([]byte(account)), numShards)
}

// Assigner - remembers recent account to shard results
//
// a rebuild sees the same receiver accounts many times over
type Assigner struct {
	numShards uint64
	cache     *cache.Cache
}

// NewAssigner - create an assigner for a fixed shard count
func NewAssigner(numShards uint64) (*Assigner, error) {
	if 0 == numShards {
		return nil, fault.ErrZeroShards
	}
	return &Assigner{
		numShards: numShards,
		cache:     cache.New(defaultExpiration, cleanupInterval),
	}, nil
}

// NumShards - the shard count this assigner uses
func (a *Assigner) NumShards() uint64 {
	return a.numShards
}

// Of - the shard of an account
func (a *Assigner) Of(account record.AccountId) record.ShardIndex {
	if obj, found := a.cache.Get(string(account)); found {
		return obj.(record.ShardIndex)
	}
	index := Of(account, a.numShards)
	a.cache.SetDefault(string(account), index)
	return index
}

// Flush - forget all remembered results
func (a *Assigner) Flush() {
	a.cache.Flush()
}

// Cached - number of remembered results
func (a *Assigner) Cached() int {
	return a.cache.ItemCount()
}
