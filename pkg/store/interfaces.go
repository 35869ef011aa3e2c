/*
 * Copyright 2026 Nodehist Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package store provides read-only access to per-node sorted stores of
// timestamp-keyed statistics records.
package store

// Cursor walks the sorted key space of one node's store inside a read
// transaction. Keys are non-negative integer timestamps in ascending order.
// Every positioning call returns the key, the raw record bytes, and whether
// the cursor landed on an entry; the value slice is only valid until the
// enclosing View call returns.
type Cursor interface {
	// First positions at the smallest key.
	First() (uint64, []byte, bool)

	// Last positions at the greatest key.
	Last() (uint64, []byte, bool)

	// Next advances in ascending key order.
	Next() (uint64, []byte, bool)

	// Prev steps back in descending key order.
	Prev() (uint64, []byte, bool)

	// Seek positions at the smallest key >= ts.
	Seek(ts uint64) (uint64, []byte, bool)

	// SeekFloor positions at the greatest key <= ts. When every stored key is
	// greater than ts it positions at the first key instead, so a caller
	// scanning forward from a too-early bound never skips the earliest record.
	SeekFloor(ts uint64) (uint64, []byte, bool)
}

// Store is one node's sorted statistics store. All access is read-only.
type Store interface {
	// Name returns the monitored node's name.
	Name() string

	// View runs fn with a cursor inside a read transaction.
	View(fn func(Cursor) error) error

	// Summary reports the record count and the first and last stored
	// timestamps. first and last are zero when the store is empty.
	Summary() (count int, first, last uint64, err error)

	// Close releases the underlying store file.
	Close() error
}
