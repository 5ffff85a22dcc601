// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/binary"

	"github.com/bitmark-inc/storemigrate/util"
)

// Pack - Varint64(tag) ++ height ++ previous ++ chunk hashes
func (block *Block) Pack() []byte {
	message := util.ToVarint64(uint64(BlockTag))
	message = appendUint64(message, block.Height)
	message = append(message, block.Previous[:]...)
	message = appendUint64(message, uint64(len(block.ChunkHashes)))
	for _, h := range block.ChunkHashes {
		message = append(message, h[:]...)
	}
	return message
}

// Pack - Varint64(tag) ++ shard ++ list of packed transactions
func (chunk *Chunk) Pack() []byte {
	message := util.ToVarint64(uint64(ChunkTag))
	message = appendUint64(message, chunk.ShardId)
	message = appendUint64(message, uint64(len(chunk.Transactions)))
	for _, tx := range chunk.Transactions {
		message = appendBytes(message, tx.Pack())
	}
	return message
}

// Pack - Varint64(tag) followed by fields in order with signature last
func (tx *SignedTransaction) Pack() []byte {
	message := util.ToVarint64(uint64(SignedTransactionTag))
	message = appendString(message, string(tx.Signer))
	message = appendString(message, string(tx.Receiver))
	message = appendUint64(message, tx.Nonce)
	message = appendBytes(message, tx.Actions)
	return appendBytes(message, tx.Signature)
}

// Pack - Varint64(tag) ++ id ++ predecessor ++ receiver ++ payload
func (receipt *Receipt) Pack() []byte {
	message := util.ToVarint64(uint64(ReceiptTag))
	message = append(message, receipt.Id[:]...)
	message = appendString(message, string(receipt.Predecessor))
	message = appendString(message, string(receipt.Receiver))
	return appendBytes(message, receipt.Payload)
}

// Pack - Varint64(tag) ++ list of packed receipts
func (list ReceiptList) Pack() []byte {
	message := util.ToVarint64(uint64(ReceiptListTag))
	message = appendUint64(message, uint64(len(list)))
	for _, receipt := range list {
		message = appendBytes(message, receipt.Pack())
	}
	return message
}

// OutgoingReceiptsKey - block hash ++ little endian shard id
func OutgoingReceiptsKey(blockHash []byte, shardId uint64) []byte {
	key := make([]byte, len(blockHash), len(blockHash)+8)
	copy(key, blockHash)
	return binary.LittleEndian.AppendUint64(key, shardId)
}

// append a single field to a buffer
func appendString(buffer []byte, s string) []byte {
	return appendBytes(buffer, []byte(s))
}

func appendBytes(buffer []byte, data []byte) []byte {
	buffer = util.AppendVarint64(buffer, uint64(len(data)))
	return append(buffer, data...)
}

func appendUint64(buffer []byte, value uint64) []byte {
	return util.AppendVarint64(buffer, value)
}
