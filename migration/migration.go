// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package migration

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/storemigrate/fault"
	"github.com/bitmark-inc/storemigrate/storage"
)

// version of a store that predates the version key
const BaseVersion = 1

// Migration - one ordered schema change
type Migration struct {
	Name    string
	Version int
	Up      func(m *Migrator, batch *storage.Batch) error
}

// ordered by version, no gaps
var migrations = []Migration{
	{Name: "widen_refcount", Version: 2, Up: (*Migrator).widenRefcount},
	{Name: "rebuild_transactions", Version: 3, Up: (*Migrator).rebuildTransactions},
	{Name: "rebuild_receipt_to_shard", Version: 4, Up: (*Migrator).rebuildReceiptToShard},
	{Name: "drop_legacy_transactions", Version: 5, Up: (*Migrator).dropLegacyTransactions},
}

// Latest - schema version after all migrations
func Latest() int {
	return migrations[len(migrations)-1].Version
}

// Options - migration behaviour from the configuration file
type Options struct {
	DryRun         bool   `gluamapper:"dry_run" json:"dry_run"`
	StrictPayloads bool   `gluamapper:"strict_payloads" json:"strict_payloads"`
	WidenColumn    string `gluamapper:"widen_column" json:"widen_column"`
}

// Result - what one migration did
type Result struct {
	Name      string
	Version   int
	Sets      int
	Deletes   int
	Committed bool
}

// Status - where a store is relative to the latest version
type Status struct {
	Stored  int
	Latest  int
	Empty   bool
	Pending []string
}

// Migrator - applies migrations to one store
type Migrator struct {
	log        *logger.L
	store      *storage.Store
	options    Options
	migrations []Migration
}

// New - create a migrator for an open store
func New(store *storage.Store, log *logger.L, options Options) (*Migrator, error) {
	if err := checkOrder(migrations); nil != err {
		return nil, err
	}
	return &Migrator{
		log:        log,
		store:      store,
		options:    options,
		migrations: migrations,
	}, nil
}

// versions must increase by exactly one from the base version
func checkOrder(list []Migration) error {
	expected := BaseVersion + 1
	for _, m := range list {
		if m.Version != expected {
			return fault.Wrap(fault.ErrMigrationOutOfOrder, "migration: %s  version: %d  expected: %d", m.Name, m.Version, expected)
		}
		expected += 1
	}
	return nil
}

// Pending - migrations still to be applied to a store at version
func (m *Migrator) Pending(version int) []Migration {
	pending := []Migration{}
	for _, mig := range m.migrations {
		if mig.Version > version {
			pending = append(pending, mig)
		}
	}
	return pending
}

// stored version, with a non-empty unversioned store counted as the base
func (m *Migrator) currentVersion() (int, bool, error) {
	version, err := m.store.Version()
	if nil != err {
		return 0, false, err
	}
	empty, err := m.store.IsEmpty()
	if nil != err {
		return 0, false, err
	}
	if 0 == version && !empty {
		version = BaseVersion
	}
	return version, empty, nil
}

// Status - stored version and names of the pending migrations
func (m *Migrator) Status() (Status, error) {
	version, empty, err := m.currentVersion()
	if nil != err {
		return Status{}, err
	}

	status := Status{
		Stored:  version,
		Latest:  m.latest(),
		Empty:   empty,
		Pending: []string{},
	}
	if 0 == version && empty {
		return status, nil
	}
	for _, mig := range m.Pending(version) {
		status.Pending = append(status.Pending, mig.Name)
	}
	return status, nil
}

func (m *Migrator) latest() int {
	if 0 == len(m.migrations) {
		return BaseVersion
	}
	return m.migrations[len(m.migrations)-1].Version
}

// Run - apply every pending migration in version order
//
// an empty store is stamped with the latest version; a store newer than
// the latest version is refused
func (m *Migrator) Run() ([]Result, error) {
	results := []Result{}

	if m.store.IsReadOnly() && !m.options.DryRun {
		return results, fault.ErrReadOnly
	}

	stored, err := m.store.Version()
	if nil != err {
		return results, err
	}
	version, empty, err := m.currentVersion()
	if nil != err {
		return results, err
	}

	latest := m.latest()

	if version > latest {
		m.log.Criticalf("database version: %d > current version: %d", version, latest)
		return results, fault.Wrap(fault.ErrDatabaseIsNewer, "database: %d  current: %d", version, latest)
	}

	if 0 == version && empty {
		m.log.Infof("empty database: set version: %d", latest)
		if m.options.DryRun {
			return results, nil
		}
		batch := m.store.NewBatch()
		batch.SetVersion(latest)
		return results, m.store.Commit(batch)
	}

	if 0 == stored {
		m.log.Warnf("database has no version: assume version: %d", version)
	}

	if version == latest {
		m.log.Infof("database is at current version: %d", version)
		return results, nil
	}

	for _, mig := range m.Pending(version) {
		m.log.Infof("migration: %s  version: %d -> %d  start", mig.Name, mig.Version-1, mig.Version)

		batch := m.store.NewBatch()
		err := mig.Up(m, batch)
		if nil != err {
			m.log.Criticalf("migration: %s  error: %s", mig.Name, err)
			return results, err
		}
		batch.SetVersion(mig.Version)

		result := Result{
			Name:    mig.Name,
			Version: mig.Version,
			Sets:    batch.Sets(),
			Deletes: batch.Deletes(),
		}

		if m.options.DryRun {
			m.log.Infof("migration: %s  dry run: sets: %d  deletes: %d  not committed", mig.Name, result.Sets, result.Deletes)
			results = append(results, result)
			continue
		}

		err = m.store.Commit(batch)
		if nil != err {
			m.log.Criticalf("migration: %s  commit error: %s", mig.Name, err)
			return results, err
		}
		result.Committed = true
		results = append(results, result)

		m.log.Infof("migration: %s  version: %d  committed: sets: %d  deletes: %d", mig.Name, mig.Version, result.Sets, result.Deletes)
	}
	return results, nil
}
