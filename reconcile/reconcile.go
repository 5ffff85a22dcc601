// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reconcile

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/storemigrate/fault"
	"github.com/bitmark-inc/storemigrate/refcount"
	"github.com/bitmark-inc/storemigrate/storage"
)

// Packer - a payload that can be stored in a derived column
type Packer interface {
	Pack() []byte
}

// Options - reconciliation behaviour
type Options struct {
	// abort when two contributions to one key carry different payloads
	StrictPayloads bool
}

// Stats - counts from one reconciliation
type Stats struct {
	Scanned       int // source records read
	Contributions int // (key, payload) pairs emitted
	Unchanged     int // target entries already correct
	Updated       int // target entries overwritten
	Inserted      int // keys new to the target
	Deleted       int // target entries without any contribution
	Conflicts     int // contributions whose payload differs from the first
}

// String - for logging
func (s Stats) String() string {
	return fmt.Sprintf("scanned: %d  contributions: %d  unchanged: %d  updated: %d  inserted: %d  deleted: %d  conflicts: %d",
		s.Scanned, s.Contributions, s.Unchanged, s.Updated, s.Inserted, s.Deleted, s.Conflicts)
}

// Changes - number of operations queued
func (s Stats) Changes() int {
	return s.Updated + s.Inserted + s.Deleted
}

type aggregate struct {
	payload []byte
	count   int64
}

// Column - queue the operations that make target the aggregate of source
//
// project turns one source record into zero or more contributions and
// an error from it aborts the reconciliation; nothing is written to the
// store, the caller commits the writer
func Column[P Packer](
	log *logger.L,
	reader storage.Reader,
	writer storage.Writer,
	source *storage.Column,
	target *storage.Column,
	project func(key []byte, value []byte, emit func(key []byte, payload P)) error,
	options Options,
) (Stats, error) {
	stats := Stats{}

	if !target.IsRefcounted() {
		return stats, fault.Wrap(fault.ErrInvalidColumn, "target: %s is not refcounted", target)
	}

	aggregates := make(map[string]*aggregate)
	var conflict error

	emit := func(key []byte, payload P) {
		stats.Contributions += 1
		packed := payload.Pack()
		a, ok := aggregates[string(key)]
		if !ok {
			aggregates[string(key)] = &aggregate{payload: packed, count: 1}
			return
		}
		a.count += 1
		if !bytes.Equal(a.payload, packed) {
			stats.Conflicts += 1
			log.Warnf("%s: key: %x  payload differs from first contribution", target, key)
			if options.StrictPayloads && nil == conflict {
				conflict = fault.Wrap(fault.ErrPayloadConflict, "target: %s  key: %x", target, key)
			}
		}
	}

	err := reader.Iterate(source, func(key []byte, value []byte) error {
		stats.Scanned += 1
		if err := project(key, value, emit); nil != err {
			return err
		}
		return conflict
	})
	if nil != err {
		log.Errorf("%s: scan source: %s  error: %s", target, source, err)
		return stats, err
	}
	log.Infof("%s: scanned: %d  distinct keys: %d", source, stats.Scanned, len(aggregates))

	err = reader.IterateRaw(target, func(key []byte, blob []byte) error {
		if _, _, err := refcount.Decode(blob, refcount.Wide); nil != err {
			return fault.Wrap(err, "target: %s  key: %x", target, key)
		}

		a, ok := aggregates[string(key)]
		if !ok {
			writer.Delete(target, key)
			stats.Deleted += 1
			return nil
		}
		delete(aggregates, string(key))

		expected := refcount.Encode(a.payload, a.count, refcount.Wide)
		if bytes.Equal(blob, expected) {
			stats.Unchanged += 1
			return nil
		}
		writer.Set(target, key, expected)
		stats.Updated += 1
		return nil
	})
	if nil != err {
		log.Errorf("%s: scan target error: %s", target, err)
		return stats, err
	}

	// remaining keys in order so the batch is deterministic
	remaining := make([]string, 0, len(aggregates))
	for key := range aggregates {
		remaining = append(remaining, key)
	}
	sort.Strings(remaining)

	for _, key := range remaining {
		a := aggregates[key]
		writer.Set(target, []byte(key), refcount.Encode(a.payload, a.count, refcount.Wide))
		stats.Inserted += 1
	}

	log.Infof("%s: %s", target, stats)
	return stats, nil
}
