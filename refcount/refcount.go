// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package refcount - value ++ little endian reference count
//
// A refcounted column stores each value with its reference count
// appended. Older databases used a 4 byte counter, current ones use 8
// bytes; both are signed and little endian.
package refcount

import (
	"encoding/binary"

	"github.com/bitmark-inc/storemigrate/fault"
)

// Width - number of bytes in the trailing counter
type Width int

// the two on-disk layouts
const (
	Narrow = Width(4)
	Wide   = Width(8)
)

// Encode - value ++ le(refcount, width)
//
// a narrow counter keeps only the low 32 bits of the refcount
func Encode(value []byte, refcount int64, width Width) []byte {
	blob := make([]byte, len(value), len(value)+int(width))
	copy(blob, value)
	switch width {
	case Narrow:
		return binary.LittleEndian.AppendUint32(blob, uint32(int32(refcount)))
	case Wide:
		return binary.LittleEndian.AppendUint64(blob, uint64(refcount))
	default:
		panic("refcount.Encode: unsupported width")
	}
}

// Decode - split a stored blob into its value and refcount
//
// the value shares memory with the blob
func Decode(blob []byte, width Width) ([]byte, int64, error) {
	if width != Narrow && width != Wide {
		return nil, 0, fault.ErrUnsupportedRefcountWidth
	}
	split := len(blob) - int(width)
	if split < 0 {
		return nil, 0, fault.ErrMalformedRecord
	}
	if Narrow == width {
		return blob[:split], int64(int32(binary.LittleEndian.Uint32(blob[split:]))), nil
	}
	return blob[:split], int64(binary.LittleEndian.Uint64(blob[split:])), nil
}

// Widen - convert a narrow blob to the wide layout
//
// the four new high order counter bytes are zero, which keeps the
// numeric value of every non-negative narrow counter; false means the
// blob cannot hold a narrow counter and the key must be deleted
func Widen(blob []byte) ([]byte, bool) {
	if len(blob) < int(Narrow) {
		return nil, false
	}
	wide := make([]byte, len(blob), len(blob)+int(Wide-Narrow))
	copy(wide, blob)
	return append(wide, 0, 0, 0, 0), true
}
