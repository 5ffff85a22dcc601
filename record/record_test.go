// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/storemigrate/fault"
	"github.com/bitmark-inc/storemigrate/merkle"
	"github.com/bitmark-inc/storemigrate/record"
)

func makeTransaction(signer string, nonce uint64) *record.SignedTransaction {
	return &record.SignedTransaction{
		Signer:    record.AccountId(signer),
		Receiver:  "receiver.chain",
		Nonce:     nonce,
		Actions:   []byte{0x01, 0x02, 0x03},
		Signature: []byte("signature"),
	}
}

func TestBlock(t *testing.T) {
	block := &record.Block{
		Height:      1234,
		Previous:    merkle.NewDigest([]byte("previous")),
		ChunkHashes: []merkle.Digest{{1}, {2}, {3}, {4}},
	}

	packed := block.Pack()
	unpacked, err := record.UnpackBlock(packed)
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, block, unpacked, "block changed")
	assert.Equal(t, merkle.NewDigest(packed), block.Hash(), "hash is not digest of packed block")
}

func TestBlockWithoutChunks(t *testing.T) {
	block := &record.Block{Height: 1}

	unpacked, err := record.UnpackBlock(block.Pack())
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, 0, len(unpacked.ChunkHashes), "expected no chunks")
}

func TestChunk(t *testing.T) {
	chunk := &record.Chunk{
		ShardId: 3,
		Transactions: []*record.SignedTransaction{
			makeTransaction("alice.chain", 1),
			makeTransaction("bob.chain", 2),
		},
	}

	unpacked, err := record.UnpackChunk(chunk.Pack())
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, chunk, unpacked, "chunk changed")
}

func TestEmptyChunk(t *testing.T) {
	chunk := &record.Chunk{ShardId: 0}

	unpacked, err := record.UnpackChunk(chunk.Pack())
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, 0, len(unpacked.Transactions), "expected no transactions")
}

func TestTransactionHashDependsOnContent(t *testing.T) {
	tx1 := makeTransaction("alice.chain", 1)
	tx2 := makeTransaction("alice.chain", 2)

	assert.Equal(t, tx1.Hash(), makeTransaction("alice.chain", 1).Hash(), "hash is not deterministic")
	assert.NotEqual(t, tx1.Hash(), tx2.Hash(), "different transactions share a hash")
}

func TestReceiptList(t *testing.T) {
	list := record.ReceiptList{
		{Id: merkle.Digest{9}, Predecessor: "alice.chain", Receiver: "bob.chain", Payload: []byte{7}},
		{Id: merkle.Digest{8}, Predecessor: "bob.chain", Receiver: "carol.chain", Payload: []byte{}},
	}

	unpacked, err := record.UnpackReceiptList(list.Pack())
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, 2, len(unpacked), "wrong receipt count")
	assert.Equal(t, list[0], unpacked[0], "first receipt changed")
	assert.Equal(t, list[1].Id, unpacked[1].Id, "second receipt id changed")
	assert.Equal(t, list[1].Receiver, unpacked[1].Receiver, "second receiver changed")
}

func TestEmptyReceiptList(t *testing.T) {
	unpacked, err := record.UnpackReceiptList(record.ReceiptList{}.Pack())
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, 0, len(unpacked), "expected empty list")
}

func TestShardIndex(t *testing.T) {
	packed := record.ShardIndex(3).Pack()
	assert.Equal(t, []byte{3, 0, 0, 0, 0, 0, 0, 0}, packed, "wrong shard index bytes")

	s, err := record.UnpackShardIndex(packed)
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, record.ShardIndex(3), s, "wrong shard index")

	_, err = record.UnpackShardIndex(packed[:7])
	assert.True(t, errors.Is(err, fault.ErrNotShardIndex), "short shard index accepted")
}

func TestOutgoingReceiptsKey(t *testing.T) {
	key := record.OutgoingReceiptsKey([]byte{0xaa, 0xbb}, 2)
	assert.Equal(t, []byte{0xaa, 0xbb, 2, 0, 0, 0, 0, 0, 0, 0}, key, "wrong key")
}

func TestInvalidRecords(t *testing.T) {
	tx := makeTransaction("alice.chain", 5).Pack()
	block := (&record.Block{Height: 1, ChunkHashes: []merkle.Digest{{1}}}).Pack()
	chunk := (&record.Chunk{Transactions: []*record.SignedTransaction{makeTransaction("alice.chain", 1)}}).Pack()
	receipts := record.ReceiptList{{Id: merkle.Digest{1}, Predecessor: "ab", Receiver: "cd"}}.Pack()

	shortAccount := (&record.SignedTransaction{Signer: "a", Receiver: "bob.chain"}).Pack()

	// a chunk holding a receipt where a transaction belongs
	wrongItem := append([]byte{byte(record.ChunkTag), 0, 1}, byte(len(receipts)))
	wrongItem = append(wrongItem, receipts...)

	tests := []struct {
		name   string
		unpack func([]byte) error
		data   []byte
		class  error
	}{
		{"empty block", unpackBlock, []byte{}, fault.ErrNotBlock},
		{"truncated block", unpackBlock, block[:len(block)-1], fault.ErrNotBlock},
		{"trailing block", unpackBlock, append(append([]byte{}, block...), 0), fault.ErrNotBlock},
		{"tx as block", unpackBlock, tx, fault.ErrNotBlock},
		{"truncated tx", unpackTx, tx[:len(tx)-2], fault.ErrNotTransaction},
		{"short account", unpackTx, shortAccount, fault.ErrNotTransaction},
		{"truncated chunk", unpackChunk, chunk[:len(chunk)-1], fault.ErrNotChunk},
		{"receipt in chunk", unpackChunk, wrongItem, fault.ErrNotChunk},
		{"block as receipts", unpackReceipts, block, fault.ErrNotReceiptList},
		{"truncated receipts", unpackReceipts, receipts[:len(receipts)-3], fault.ErrNotReceiptList},
	}

	for _, test := range tests {
		err := test.unpack(test.data)
		assert.True(t, errors.Is(err, test.class), "%s: expected %v got %v", test.name, test.class, err)
		assert.True(t, fault.IsErrRecord(err), "%s: not a record error: %v", test.name, err)
	}
}

func unpackBlock(b []byte) error    { _, err := record.UnpackBlock(b); return err }
func unpackChunk(b []byte) error    { _, err := record.UnpackChunk(b); return err }
func unpackTx(b []byte) error       { _, err := record.UnpackSignedTransaction(b); return err }
func unpackReceipts(b []byte) error { _, err := record.UnpackReceiptList(b); return err }
