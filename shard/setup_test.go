// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package shard_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/storemigrate/storage"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "shard-testing")
	if nil != err {
		panic(err)
	}

	_ = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})

	rc := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(dir)
	os.Exit(rc)
}

func memoryStore(t *testing.T) *storage.Store {
	s, err := storage.Open(storage.Configuration{Backend: storage.Memory}, false, logger.New("shard-test"))
	if nil != err {
		t.Fatalf("open error: %s", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
