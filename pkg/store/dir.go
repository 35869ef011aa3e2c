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
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSuffix is the extension of per-node store files in the data directory.
const FileSuffix = ".db"

// ListNodes returns the node names that have a store file under dir, sorted
// by name so batch runs process stores in a deterministic order.
func ListNodes(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading store directory %s: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", errNotADirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading store directory %s: %w", dir, err)
	}

	var nodes []string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileSuffix) {
			continue
		}

		nodes = append(nodes, strings.TrimSuffix(e.Name(), FileSuffix))
	}

	sort.Strings(nodes)

	return nodes, nil
}

// OpenNode opens the store for one node under dir.
func OpenNode(dir, node string) (*BoltStore, error) {
	if node == "" {
		return nil, errEmptyNodeName
	}

	path := filepath.Join(dir, node+FileSuffix)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, node)
	}

	return Open(path, node)
}
