// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitmark-inc/storemigrate/merkle"
)

// TagType - type code for packed records
type TagType uint64

// enumerate the possible record types
// this is encoded a Varint64 at start of every packed record
const (
	// null marks beginning of list - not used as a record type
	NullTag = TagType(iota)

	BlockTag             = TagType(iota) // block header and chunk list
	ChunkTag             = TagType(iota) // transactions of one shard
	SignedTransactionTag = TagType(iota) // a single signed transaction
	ReceiptTag           = TagType(iota) // a single receipt
	ReceiptListTag       = TagType(iota) // outgoing receipts of a block/shard

	// this item must be last
	InvalidTag = TagType(iota)
)

// byte sizes for various fields
const (
	minAccountLength   = 2
	maxAccountLength   = 64
	maxPayloadLength   = 4 * 1024 * 1024
	maxSignatureLength = 1024
	maxListLength      = 1 << 20
	maxRecordLength    = 64 * 1024 * 1024
)

// AccountId - the readable name of an account
type AccountId string

// Block - the parts of a block the migrations need
type Block struct {
	Height      uint64          `json:"height"`
	Previous    merkle.Digest   `json:"previous"`
	ChunkHashes []merkle.Digest `json:"chunkHashes"`
}

// Chunk - the transactions included for one shard of a block
type Chunk struct {
	ShardId      uint64               `json:"shardId"`
	Transactions []*SignedTransaction `json:"transactions"`
}

// SignedTransaction - a transaction as included in a chunk
type SignedTransaction struct {
	Signer    AccountId `json:"signer"`
	Receiver  AccountId `json:"receiver"`
	Nonce     uint64    `json:"nonce"`
	Actions   []byte    `json:"actions"`
	Signature []byte    `json:"signature"`
}

// Receipt - a receipt sent from one shard to another
type Receipt struct {
	Id          merkle.Digest `json:"id"`
	Predecessor AccountId     `json:"predecessor"`
	Receiver    AccountId     `json:"receiver"`
	Payload     []byte        `json:"payload"`
}

// ReceiptList - outgoing receipts of one block and shard
type ReceiptList []*Receipt

// Hash - the transaction hash, used as its key in the transactions column
func (tx *SignedTransaction) Hash() merkle.Digest {
	return merkle.NewDigest(tx.Pack())
}

// Hash - the block hash, used as its key in the blocks column
func (block *Block) Hash() merkle.Digest {
	return merkle.NewDigest(block.Pack())
}

// Hash - the chunk hash, used as its key in the chunks column
func (chunk *Chunk) Hash() merkle.Digest {
	return merkle.NewDigest(chunk.Pack())
}
