// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
	"fmt"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	ExistsError   GenericError
	InvalidError  GenericError
	LengthError   GenericError
	NotFoundError GenericError
	ProcessError  GenericError
	RecordError   GenericError
)

// common errors - keep in alphabetic order
var (
	ErrConfigurationNotTable    = InvalidError("configuration did not return a table")
	ErrDatabaseIsNewer          = InvalidError("database version is newer than this program")
	ErrDatabaseVersionLength    = LengthError("database version length is invalid")
	ErrInvalidChain             = InvalidError("invalid chain")
	ErrInvalidColumn            = InvalidError("invalid column")
	ErrInvalidCount             = InvalidError("invalid count")
	ErrInvalidDataDirectory     = InvalidError("invalid data directory")
	ErrInvalidFileName          = InvalidError("file name must not contain a path")
	ErrInvalidStructPointer     = InvalidError("invalid struct pointer")
	ErrMalformedRecord          = LengthError("record is shorter than its refcount")
	ErrMigrationOutOfOrder      = InvalidError("migration versions are out of order")
	ErrNotBlock                 = RecordError("not a block record")
	ErrNotChunk                 = RecordError("not a chunk record")
	ErrNotReceipt               = RecordError("not a receipt record")
	ErrNotReceiptList           = RecordError("not a receipt list record")
	ErrNotShardIndex            = RecordError("not a shard index record")
	ErrNotTransaction           = RecordError("not a transaction record")
	ErrPayloadConflict          = RecordError("contradictory payloads for the same key")
	ErrReadOnly                 = ProcessError("database is read only")
	ErrStoreClosed              = ProcessError("store is closed")
	ErrUnknownBackend           = NotFoundError("unknown database backend")
	ErrUnknownColumn            = NotFoundError("unknown column")
	ErrUnsupportedRefcountWidth = InvalidError("unsupported refcount width")
	ErrZeroShards               = InvalidError("shard count must be positive")
)

// the error interface methods
func (e GenericError) Error() string  { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// Wrapped - a class instance carrying detail about where it happened
type Wrapped struct {
	class  error
	detail string
}

// Wrap - attach formatted detail to one of the error instances above
func Wrap(class error, format string, arguments ...interface{}) error {
	return &Wrapped{
		class:  class,
		detail: fmt.Sprintf(format, arguments...),
	}
}

func (w *Wrapped) Error() string { return w.class.Error() + ": " + w.detail }
func (w *Wrapped) Unwrap() error { return w.class }

// determine the class of an error
func IsErrExists(e error) bool   { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool  { var x InvalidError; return errors.As(e, &x) }
func IsErrLength(e error) bool   { var x LengthError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool { var x NotFoundError; return errors.As(e, &x) }
func IsErrProcess(e error) bool  { var x ProcessError; return errors.As(e, &x) }
func IsErrRecord(e error) bool   { var x RecordError; return errors.As(e, &x) }
