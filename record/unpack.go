// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitmark-inc/storemigrate/fault"
	"github.com/bitmark-inc/storemigrate/merkle"
	"github.com/bitmark-inc/storemigrate/util"
)

// unpacker - walks a packed record; the first failure sticks and all
// later reads return zero values
type unpacker struct {
	record []byte
	n      int
	failed bool
}

func (u *unpacker) fail() {
	u.failed = true
}

func (u *unpacker) tag(expected TagType) {
	tag, n := util.ClippedVarint64(u.record, 1, int(InvalidTag)-1)
	if 0 == n || TagType(tag) != expected {
		u.fail()
		return
	}
	u.n += n
}

func (u *unpacker) uint64() uint64 {
	if u.failed {
		return 0
	}
	value, n := util.FromVarint64(u.record[u.n:])
	if 0 == n {
		u.fail()
		return 0
	}
	u.n += n
	return value
}

func (u *unpacker) count(maximum int) int {
	if u.failed {
		return 0
	}
	value, n := util.ClippedVarint64(u.record[u.n:], 0, maximum)
	if 0 == n {
		u.fail()
		return 0
	}
	u.n += n
	return value
}

func (u *unpacker) bytes(minimum int, maximum int) []byte {
	length := u.count(maximum)
	if u.failed {
		return nil
	}
	if length < minimum || u.n+length > len(u.record) {
		u.fail()
		return nil
	}
	data := make([]byte, length)
	copy(data, u.record[u.n:u.n+length])
	u.n += length
	return data
}

func (u *unpacker) account() AccountId {
	return AccountId(u.bytes(minAccountLength, maxAccountLength))
}

func (u *unpacker) digest() merkle.Digest {
	var d merkle.Digest
	if u.failed {
		return d
	}
	if u.n+merkle.DigestLength > len(u.record) {
		u.fail()
		return d
	}
	copy(d[:], u.record[u.n:])
	u.n += merkle.DigestLength
	return d
}

// finish - report the class error on any failure or leftover bytes
func (u *unpacker) finish(class error) error {
	if u.failed {
		return fault.Wrap(class, "truncated or invalid at offset: %d", u.n)
	}
	if u.n != len(u.record) {
		return fault.Wrap(class, "%d trailing bytes", len(u.record)-u.n)
	}
	return nil
}

// UnpackBlock - decode a packed block
func UnpackBlock(packed []byte) (*Block, error) {
	u := &unpacker{record: packed}
	u.tag(BlockTag)
	block := &Block{
		Height:   u.uint64(),
		Previous: u.digest(),
	}
	count := u.count(maxListLength)
	if count*merkle.DigestLength > len(u.record)-u.n {
		u.fail()
	}
	if !u.failed && count > 0 {
		block.ChunkHashes = make([]merkle.Digest, count)
		for i := range block.ChunkHashes {
			block.ChunkHashes[i] = u.digest()
		}
	}
	if err := u.finish(fault.ErrNotBlock); nil != err {
		return nil, err
	}
	return block, nil
}

// UnpackChunk - decode a packed chunk including all of its transactions
func UnpackChunk(packed []byte) (*Chunk, error) {
	u := &unpacker{record: packed}
	u.tag(ChunkTag)
	chunk := &Chunk{
		ShardId: u.uint64(),
	}
	count := u.count(maxListLength)
	for i := 0; i < count && !u.failed; i += 1 {
		item := u.bytes(1, maxRecordLength)
		if u.failed {
			break
		}
		tx, err := UnpackSignedTransaction(item)
		if nil != err {
			return nil, fault.Wrap(fault.ErrNotChunk, "transaction %d: %s", i, err)
		}
		chunk.Transactions = append(chunk.Transactions, tx)
	}
	if err := u.finish(fault.ErrNotChunk); nil != err {
		return nil, err
	}
	return chunk, nil
}

// UnpackSignedTransaction - decode a packed transaction
func UnpackSignedTransaction(packed []byte) (*SignedTransaction, error) {
	u := &unpacker{record: packed}
	u.tag(SignedTransactionTag)
	tx := &SignedTransaction{
		Signer:    u.account(),
		Receiver:  u.account(),
		Nonce:     u.uint64(),
		Actions:   u.bytes(0, maxPayloadLength),
		Signature: u.bytes(0, maxSignatureLength),
	}
	if err := u.finish(fault.ErrNotTransaction); nil != err {
		return nil, err
	}
	return tx, nil
}

// UnpackReceipt - decode a packed receipt
func UnpackReceipt(packed []byte) (*Receipt, error) {
	u := &unpacker{record: packed}
	u.tag(ReceiptTag)
	receipt := &Receipt{
		Id:          u.digest(),
		Predecessor: u.account(),
		Receiver:    u.account(),
		Payload:     u.bytes(0, maxPayloadLength),
	}
	if err := u.finish(fault.ErrNotReceipt); nil != err {
		return nil, err
	}
	return receipt, nil
}

// UnpackReceiptList - decode the outgoing receipts of one block and shard
func UnpackReceiptList(packed []byte) (ReceiptList, error) {
	u := &unpacker{record: packed}
	u.tag(ReceiptListTag)
	count := u.count(maxListLength)
	list := ReceiptList{}
	for i := 0; i < count && !u.failed; i += 1 {
		item := u.bytes(1, maxRecordLength)
		if u.failed {
			break
		}
		receipt, err := UnpackReceipt(item)
		if nil != err {
			return nil, fault.Wrap(fault.ErrNotReceiptList, "receipt %d: %s", i, err)
		}
		list = append(list, receipt)
	}
	if err := u.finish(fault.ErrNotReceiptList); nil != err {
		return nil, err
	}
	return list, nil
}
