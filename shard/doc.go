// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package shard - decide which shard an account belongs to
//
// the shard count is read from the chunk count of the first block;
// an account maps to:
//
//   le_uint64(sha3_256(account)[0:8]) mod shard_count
//
// the result must be bit exact with the node's runtime layout
package shard
