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
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func writeFixture(t *testing.T, dir, node string, timestamps ...uint64) string {
	t.Helper()

	path := filepath.Join(dir, node+FileSuffix)

	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(Bucket)
		if err != nil {
			return err
		}

		for _, ts := range timestamps {
			record := fmt.Sprintf(`{"response-version":"1","seq":%d}`, ts)
			if err := b.Put(EncodeKey(ts), []byte(record)); err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	return path
}

func TestSeekFloor(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "node1", 100, 200, 300)

	st, err := Open(path, "node1")
	require.NoError(t, err)

	defer func() {
		require.NoError(t, st.Close())
	}()

	tests := []struct {
		name     string
		target   uint64
		wantKey  uint64
		wantHit  bool
	}{
		{name: "exact match", target: 200, wantKey: 200, wantHit: true},
		{name: "between keys lands on floor", target: 250, wantKey: 200, wantHit: true},
		{name: "below first key lands on first", target: 50, wantKey: 100, wantHit: true},
		{name: "above last key lands on last", target: 999, wantKey: 300, wantHit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := st.View(func(c Cursor) error {
				key, value, ok := c.SeekFloor(tt.target)
				assert.Equal(t, tt.wantHit, ok)
				assert.Equal(t, tt.wantKey, key)
				assert.NotEmpty(t, value)

				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestSeekFloorThenNextScansForward(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "node1", 100, 200, 300)

	st, err := Open(path, "node1")
	require.NoError(t, err)

	defer func() {
		require.NoError(t, st.Close())
	}()

	var keys []uint64

	err = st.View(func(c Cursor) error {
		for ts, _, ok := c.SeekFloor(150); ok; ts, _, ok = c.Next() {
			keys = append(keys, ts)
		}

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []uint64{100, 200, 300}, keys)
}

func TestCursorOnEmptyStore(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "empty")

	st, err := Open(path, "empty")
	require.NoError(t, err)

	defer func() {
		require.NoError(t, st.Close())
	}()

	err = st.View(func(c Cursor) error {
		_, _, ok := c.First()
		assert.False(t, ok)

		_, _, ok = c.Last()
		assert.False(t, ok)

		_, _, ok = c.SeekFloor(100)
		assert.False(t, ok)

		return nil
	})
	require.NoError(t, err)
}

func TestSummary(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "node1", 100, 200, 300)

	st, err := Open(path, "node1")
	require.NoError(t, err)

	defer func() {
		require.NoError(t, st.Close())
	}()

	count, first, last, err := st.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, uint64(100), first)
	assert.Equal(t, uint64(300), last)
}

func TestListNodes(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "charlie", 1)
	writeFixture(t, dir, "alpha", 1)
	writeFixture(t, dir, "bravo", 1)

	nodes, err := ListNodes(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, nodes)
}

func TestOpenNodeMissing(t *testing.T) {
	_, err := OpenNode(t.TempDir(), "ghost")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
