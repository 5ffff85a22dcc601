// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reconcile - rebuild a derived column from its source
//
// one scan of the source column builds a map of
//
//   derived key -> (first payload seen, number of contributions)
//
// then one raw scan of the target column compares every stored entry
// against the map and queues only the differences into a pending batch:
// keys missing from the map are deleted, keys whose stored bytes differ
// are overwritten and keys left in the map at the end are inserted.
// Running it again over a committed result queues nothing.
package reconcile
