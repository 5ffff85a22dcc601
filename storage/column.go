// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"reflect"

	"github.com/bitmark-inc/storemigrate/fault"
)

// Kind - how a column's contents come about
type Kind string

// column kinds
const (
	Authoritative = Kind("authoritative")
	Derived       = Kind("derived")
	Deprecated    = Kind("deprecated")
)

// Column - one logical key space of the store
type Column struct {
	name       string
	prefix     byte
	limit      []byte
	kind       Kind
	refcounted bool
}

// Columns - the set of columns
//
// note all must be exported (i.e. initial capital) or initialisation will fail
type Columns struct {
	Blocks             *Column `prefix:"B" kind:"authoritative"`
	Chunks             *Column `prefix:"C" kind:"authoritative"`
	OutgoingReceipts   *Column `prefix:"R" kind:"authoritative"`
	State              *Column `prefix:"X" kind:"authoritative" refcount:"yes"`
	Transactions       *Column `prefix:"T" kind:"derived" refcount:"yes"`
	ReceiptIdToShardId *Column `prefix:"S" kind:"derived" refcount:"yes"`
	LegacyTransactions *Column `prefix:"t" kind:"deprecated"`
	TestData           *Column `prefix:"Z" kind:"authoritative"`
}

// Name - field name of the column
func (c *Column) Name() string { return c.name }

// Prefix - key prefix byte of the column
func (c *Column) Prefix() byte { return c.prefix }

// Kind - authoritative, derived or deprecated
func (c *Column) Kind() Kind { return c.kind }

// IsRefcounted - true if values carry a trailing refcount
func (c *Column) IsRefcounted() bool { return c.refcounted }

// String - for logging
func (c *Column) String() string {
	return fmt.Sprintf("%s(%c)", c.name, c.prefix)
}

// prepend the prefix onto the key
func (c *Column) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = c.prefix
	return append(prefixedKey, key...)
}

// NewColumns - build the column table from the struct tags
func NewColumns() (Columns, error) {
	columns := Columns{}

	// this will be a struct type
	columnsType := reflect.TypeOf(columns)

	// get write access by using pointer + Elem()
	columnsValue := reflect.ValueOf(&columns).Elem()

	seen := make(map[byte]string)

	// scan each field
	for i := 0; i < columnsType.NumField(); i += 1 {

		fieldInfo := columnsType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) || 0 == prefixTag[0] {
			return Columns{}, fmt.Errorf("column: %s has invalid prefix: %q", fieldInfo.Name, prefixTag)
		}
		prefix := prefixTag[0]
		if other, ok := seen[prefix]; ok {
			return Columns{}, fmt.Errorf("column: %s duplicates prefix of: %s", fieldInfo.Name, other)
		}
		seen[prefix] = fieldInfo.Name

		kind := Kind(fieldInfo.Tag.Get("kind"))
		switch kind {
		case Authoritative, Derived, Deprecated:
		default:
			return Columns{}, fmt.Errorf("column: %s has invalid kind: %q", fieldInfo.Name, kind)
		}

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		c := &Column{
			name:       fieldInfo.Name,
			prefix:     prefix,
			limit:      limit,
			kind:       kind,
			refcounted: "yes" == fieldInfo.Tag.Get("refcount"),
		}
		columnsValue.Field(i).Set(reflect.ValueOf(c))
	}
	return columns, nil
}

// All - every column in declaration order
func (columns Columns) All() []*Column {
	v := reflect.ValueOf(columns)
	all := make([]*Column, 0, v.NumField())
	for i := 0; i < v.NumField(); i += 1 {
		all = append(all, v.Field(i).Interface().(*Column))
	}
	return all
}

// ByPrefix - find a column from its prefix character
func (columns Columns) ByPrefix(prefix string) (*Column, error) {
	if 1 != len(prefix) {
		return nil, fault.Wrap(fault.ErrInvalidColumn, "prefix: %q", prefix)
	}
	for _, c := range columns.All() {
		if c.prefix == prefix[0] {
			return c, nil
		}
	}
	return nil, fault.Wrap(fault.ErrUnknownColumn, "prefix: %q", prefix)
}

// ByName - find a column from its field name
func (columns Columns) ByName(name string) (*Column, error) {
	for _, c := range columns.All() {
		if c.name == name {
			return c, nil
		}
	}
	return nil, fault.Wrap(fault.ErrUnknownColumn, "name: %q", name)
}
