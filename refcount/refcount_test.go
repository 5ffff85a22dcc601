// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package refcount_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/storemigrate/fault"
	"github.com/bitmark-inc/storemigrate/refcount"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		value    []byte
		refcount int64
		width    refcount.Width
		expected []byte
	}{
		{[]byte{0xab}, 7, refcount.Narrow, []byte{0xab, 7, 0, 0, 0}},
		{[]byte{0xab}, 7, refcount.Wide, []byte{0xab, 7, 0, 0, 0, 0, 0, 0, 0}},
		{[]byte{}, 0x0102, refcount.Wide, []byte{2, 1, 0, 0, 0, 0, 0, 0}},
		{nil, -1, refcount.Narrow, []byte{0xff, 0xff, 0xff, 0xff}},
		{[]byte{1, 2}, -1, refcount.Wide, []byte{1, 2, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for i, test := range tests {
		actual := refcount.Encode(test.value, test.refcount, test.width)
		assert.Equal(t, test.expected, actual, "%d: wrong encoding", i)

		value, count, err := refcount.Decode(actual, test.width)
		assert.Nil(t, err, "%d: decode error", i)
		assert.Equal(t, len(test.value), len(value), "%d: wrong value length", i)
		assert.Equal(t, test.refcount, count, "%d: wrong refcount", i)
	}
}

func TestEncodeDoesNotAlias(t *testing.T) {
	value := []byte{1, 2, 3}
	blob := refcount.Encode(value, 1, refcount.Wide)
	blob[0] = 9
	assert.Equal(t, byte(1), value[0], "encode must copy the value")
}

func TestDecodeMalformed(t *testing.T) {
	_, _, err := refcount.Decode([]byte{1, 2, 3}, refcount.Narrow)
	assert.Equal(t, fault.ErrMalformedRecord, err, "3 bytes cannot hold a narrow counter")

	_, _, err = refcount.Decode([]byte{1, 2, 3, 4, 5, 6, 7}, refcount.Wide)
	assert.Equal(t, fault.ErrMalformedRecord, err, "7 bytes cannot hold a wide counter")

	value, count, err := refcount.Decode([]byte{5, 0, 0, 0}, refcount.Narrow)
	assert.Nil(t, err, "an empty value is allowed")
	assert.Equal(t, 0, len(value), "value should be empty")
	assert.Equal(t, int64(5), count, "wrong count")

	_, _, err = refcount.Decode([]byte{5, 0, 0, 0}, refcount.Width(3))
	assert.Equal(t, fault.ErrUnsupportedRefcountWidth, err, "width 3 must be rejected")
}

func TestWiden(t *testing.T) {
	narrow := refcount.Encode([]byte{0xab}, 7, refcount.Narrow)
	wide, ok := refcount.Widen(narrow)
	assert.True(t, ok, "widen failed")
	assert.Equal(t, []byte{0xab, 7, 0, 0, 0, 0, 0, 0, 0}, wide, "wrong wide encoding")

	value, count, err := refcount.Decode(wide, refcount.Wide)
	assert.Nil(t, err, "decode error")
	assert.Equal(t, []byte{0xab}, value, "value changed")
	assert.Equal(t, int64(7), count, "refcount changed")

	assert.Equal(t, []byte{0xab, 7, 0, 0, 0}, narrow, "widen must not modify its input")
}

func TestWidenPreservesValues(t *testing.T) {
	values := [][]byte{nil, {0}, {1, 2, 3}, make([]byte, 300)}
	counts := []int64{1, 2, 255, 256, 65536, math.MaxInt32}

	for _, v := range values {
		for _, c := range counts {
			wide, ok := refcount.Widen(refcount.Encode(v, c, refcount.Narrow))
			assert.True(t, ok, "widen failed for %d", c)

			value, count, err := refcount.Decode(wide, refcount.Wide)
			assert.Nil(t, err, "decode error")
			assert.Equal(t, len(v), len(value), "value length changed")
			assert.Equal(t, c, count, "refcount changed")
		}
	}
}

func TestWidenTooShort(t *testing.T) {
	for _, blob := range [][]byte{nil, {}, {1}, {1, 2}, {1, 2, 3}} {
		wide, ok := refcount.Widen(blob)
		assert.False(t, ok, "blob %x must be dropped", blob)
		assert.Nil(t, wide, "no replacement expected for %x", blob)
	}
}
