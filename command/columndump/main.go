// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/storemigrate/configuration"
	"github.com/bitmark-inc/storemigrate/record"
	"github.com/bitmark-inc/storemigrate/refcount"
	"github.com/bitmark-inc/storemigrate/storage"
)

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "raw", HasArg: getoptions.NO_ARGUMENT, Short: 'r'},
		{Long: "decode", HasArg: getoptions.NO_ARGUMENT, Short: 'd'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'n'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["help"]) > 0 || 1 != len(options["config-file"]) || 1 != len(arguments) {
		usage(program)
		return
	}

	count := -1
	if len(options["count"]) > 0 {
		count, err = strconv.Atoi(options["count"][0])
		if nil != err || count <= 0 {
			exitwithstatus.Message("%s: invalid count: %q", program, options["count"][0])
		}
	}

	theConfiguration, err := configuration.GetConfiguration(options["config-file"][0])
	if nil != err {
		exitwithstatus.Message("%s: configuration error: %s", program, err)
	}

	// all messages to the log file only
	theConfiguration.Logging.Console = false
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	store, err := storage.Open(theConfiguration.Store(), true, logger.New("columndump"))
	if nil != err {
		exitwithstatus.Message("%s: database open error: %s", program, err)
	}
	defer store.Close()

	column, err := store.Columns.ByPrefix(arguments[0])
	if nil != err {
		column, err = store.Columns.ByName(arguments[0])
	}
	if nil != err {
		exitwithstatus.Message("%s: no column corresponding to: %q", program, arguments[0])
	}

	dumper := rawValue
	if len(options["decode"]) > 0 {
		dumper = decoderFor(store.Columns, column)
	} else if column.IsRefcounted() && 0 == len(options["raw"]) {
		dumper = refcountedValue
	}

	if v, err := store.Version(); nil == err {
		fmt.Printf("schema version: %d\n", v)
	}
	fmt.Printf("column: %s  kind: %s  refcounted: %v\n", column, column.Kind(), column.IsRefcounted())

	// dump the items
	i := 0
	err = store.IterateRaw(column, func(key []byte, value []byte) error {
		if count >= 0 && i >= count {
			return errEnough
		}
		fmt.Printf("%d: Key: %x\n", i, key)
		fmt.Printf("%d: %s\n", i, dumper(value))
		i += 1
		return nil
	})
	if nil != err && errEnough != err {
		exitwithstatus.Message("%s: iterate error: %s", program, err)
	}
}

var errEnough = errors.New("enough")

func usage(program string) {
	fmt.Printf("usage: %s --config-file=FILE [--raw|--decode] [--count=N] column\n", program)
	fmt.Printf("  --raw     show refcounted values without splitting the refcount\n")
	fmt.Printf("  --decode  show domain records as JSON\n")
	fmt.Printf(" columns:\n")

	columns, err := storage.NewColumns()
	if nil != err {
		return
	}
	for _, c := range columns.All() {
		fmt.Printf("       %c → %-20s %s\n", c.Prefix(), c.Name(), c.Kind())
	}
}

func rawValue(value []byte) string {
	return fmt.Sprintf("Val: %x", value)
}

func refcountedValue(value []byte) string {
	v, n, err := refcount.Decode(value, refcount.Wide)
	if nil != err {
		return fmt.Sprintf("Val: %x  error: %s", value, err)
	}
	return fmt.Sprintf("Val: %x  refcount: %d", v, n)
}

// JSON rendering of the records a column holds
func decoderFor(columns storage.Columns, column *storage.Column) func([]byte) string {
	var decode func([]byte) (interface{}, error)

	switch column {
	case columns.Blocks:
		decode = func(b []byte) (interface{}, error) { return record.UnpackBlock(b) }
	case columns.Chunks:
		decode = func(b []byte) (interface{}, error) { return record.UnpackChunk(b) }
	case columns.OutgoingReceipts:
		decode = func(b []byte) (interface{}, error) { return record.UnpackReceiptList(b) }
	case columns.Transactions:
		decode = func(b []byte) (interface{}, error) { return record.UnpackSignedTransaction(b) }
	case columns.ReceiptIdToShardId:
		decode = func(b []byte) (interface{}, error) { return record.UnpackShardIndex(b) }
	default:
		if column.IsRefcounted() {
			return refcountedValue
		}
		return rawValue
	}

	return func(value []byte) string {
		n := int64(0)
		if column.IsRefcounted() {
			v, count, err := refcount.Decode(value, refcount.Wide)
			if nil != err {
				return fmt.Sprintf("Val: %x  error: %s", value, err)
			}
			value = v
			n = count
		}
		item, err := decode(value)
		if nil != err {
			return fmt.Sprintf("Val: %x  error: %s", value, err)
		}
		s, err := json.Marshal(item)
		if nil != err {
			return fmt.Sprintf("Val: %x  error: %s", value, err)
		}
		if column.IsRefcounted() {
			return fmt.Sprintf("Rec: %s  refcount: %d", s, n)
		}
		return fmt.Sprintf("Rec: %s", s)
	}
}
