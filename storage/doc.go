// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk column store
//
// The database is split into a series of columns. Each column is
// defined by a prefix byte obtained from the prefix tag in the struct
// defining the available columns, and is tagged as authoritative,
// derived or deprecated and as refcounted or plain.
//
// Notes:
// 1. each separate column has a single byte prefix
// 2. ++            = concatenation of byte data
// 3. hash          = SHA3-256 digest, 32 bytes
// 4. shard         = little endian uint64 (8 bytes)
// 5. refcount(x)   = x ++ little endian int64 counter (see package refcount)
//
// Authoritative:
//
//   B ++ block hash            - blocks
//                                data: packed block
//   C ++ chunk hash            - chunks
//                                data: packed chunk (list of signed transactions)
//   R ++ block hash ++ shard   - outgoing receipts
//                                data: packed receipt list
//   X ++ node hash             - state nodes
//                                data: refcount(node)
//
// Derived:
//
//   T ++ transaction hash      - transactions by hash
//                                data: refcount(packed transaction)
//   S ++ receipt id            - receipt to shard
//                                data: refcount(shard)
//
// Deprecated:
//
//   t ++ transaction hash      - per chunk transaction copies, absorbed by T
//
// Testing:
//
//   Z ++ key                   - testing data
//
// Version:
//
//   0x00 ++ "VERSION"          - big endian uint32 schema version
package storage
