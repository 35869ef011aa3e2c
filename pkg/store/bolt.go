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

package store

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	keyLength   = 8
	openTimeout = time.Second
)

// Bucket holds the timestamp-keyed records inside each node store file. The
// name is shared with the collector's write path.
var Bucket = []byte("stats")

// BoltStore reads one node's statistics from a bbolt file. The file is opened
// read-only; the collector that produced it owns the write path.
type BoltStore struct {
	name string
	db   *bolt.DB
}

// Open opens the bbolt file at path as the store for the named node.
func Open(path, name string) (*BoltStore, error) {
	if name == "" {
		return nil, errEmptyNodeName
	}

	db, err := bolt.Open(path, 0o400, &bolt.Options{ReadOnly: true, Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening store for node %s: %w", name, err)
	}

	return &BoltStore{name: name, db: db}, nil
}

func (s *BoltStore) Name() string {
	return s.name
}

func (s *BoltStore) View(fn func(Cursor) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(Bucket)
		if b == nil {
			return fn(emptyCursor{})
		}

		return fn(&boltCursor{c: b.Cursor()})
	})
}

func (s *BoltStore) Summary() (count int, first, last uint64, err error) {
	err = s.View(func(c Cursor) error {
		for ts, _, ok := c.First(); ok; ts, _, ok = c.Next() {
			if count == 0 {
				first = ts
			}

			last = ts
			count++
		}

		return nil
	})

	return count, first, last, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

type boltCursor struct {
	c *bolt.Cursor
}

func (bc *boltCursor) First() (uint64, []byte, bool) { return entry(bc.c.First()) }
func (bc *boltCursor) Last() (uint64, []byte, bool)  { return entry(bc.c.Last()) }
func (bc *boltCursor) Next() (uint64, []byte, bool)  { return entry(bc.c.Next()) }
func (bc *boltCursor) Prev() (uint64, []byte, bool)  { return entry(bc.c.Prev()) }

func (bc *boltCursor) Seek(ts uint64) (uint64, []byte, bool) {
	return entry(bc.c.Seek(EncodeKey(ts)))
}

func (bc *boltCursor) SeekFloor(ts uint64) (uint64, []byte, bool) {
	k, v := bc.c.Seek(EncodeKey(ts))
	if k == nil {
		// Every key is smaller than ts; the floor is the last entry.
		return entry(bc.c.Last())
	}

	if key := decodeKey(k); key == ts {
		return key, v, true
	}

	// Seek landed past ts; step back to the floor, or to the first entry when
	// every stored key is greater than ts.
	if pk, pv := bc.c.Prev(); pk != nil {
		return decodeKey(pk), pv, true
	}

	return entry(bc.c.First())
}

func entry(k, v []byte) (uint64, []byte, bool) {
	if k == nil {
		return 0, nil, false
	}

	return decodeKey(k), v, true
}

// EncodeKey renders a timestamp as the big-endian key the store sorts by.
func EncodeKey(ts uint64) []byte {
	k := make([]byte, keyLength)
	binary.BigEndian.PutUint64(k, ts)

	return k
}

func decodeKey(k []byte) uint64 {
	if len(k) >= keyLength {
		return binary.BigEndian.Uint64(k[:keyLength])
	}

	// Collector keys are 8 bytes; tolerate shorter ones by left-padding.
	padded := make([]byte, keyLength)
	copy(padded[keyLength-len(k):], k)

	return binary.BigEndian.Uint64(padded)
}

// emptyCursor stands in when a store file has no stats bucket yet.
type emptyCursor struct{}

func (emptyCursor) First() (uint64, []byte, bool)           { return 0, nil, false }
func (emptyCursor) Last() (uint64, []byte, bool)            { return 0, nil, false }
func (emptyCursor) Next() (uint64, []byte, bool)            { return 0, nil, false }
func (emptyCursor) Prev() (uint64, []byte, bool)            { return 0, nil, false }
func (emptyCursor) Seek(uint64) (uint64, []byte, bool)      { return 0, nil, false }
func (emptyCursor) SeekFloor(uint64) (uint64, []byte, bool) { return 0, nil, false }
