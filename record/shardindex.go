// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/binary"

	"github.com/bitmark-inc/storemigrate/fault"
)

// ShardIndexLength - bytes in a packed shard index
const ShardIndexLength = 8

// ShardIndex - index of a shard, value of the receipt to shard column
type ShardIndex uint64

// Pack - fixed 8 byte little endian
func (s ShardIndex) Pack() []byte {
	return binary.LittleEndian.AppendUint64(make([]byte, 0, ShardIndexLength), uint64(s))
}

// UnpackShardIndex - decode a packed shard index
func UnpackShardIndex(packed []byte) (ShardIndex, error) {
	if ShardIndexLength != len(packed) {
		return 0, fault.Wrap(fault.ErrNotShardIndex, "length: %d", len(packed))
	}
	return ShardIndex(binary.LittleEndian.Uint64(packed)), nil
}
