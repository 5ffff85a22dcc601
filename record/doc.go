// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - packed chain records read by the migrations
//
// Every packed record starts with Varint64(tag) followed by its fields
// in struct order:
//
//   integers      Varint64
//   accounts      Varint64(length) ++ utf-8 bytes
//   byte fields   Varint64(length) ++ bytes
//   digests       32 raw bytes
//   lists         Varint64(count) ++ Varint64(length) ++ packed item ...
//
// A shard index is the exception: it is stored as a fixed 8 byte little
// endian value with no tag.
package record
