// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package migration - bring a store up to the current schema version
//
// each migration moves the store from Version-1 to Version; all of its
// writes and the new version number go into one batch which is
// committed before the next migration starts
//
// schema versions:
//
//   1  base layout, narrow refcounts
//   2  refcounts of the state column widened to 8 bytes
//   3  transactions rebuilt from chunks
//   4  receipt to shard index rebuilt from outgoing receipts
//   5  legacy transactions column removed
package migration
