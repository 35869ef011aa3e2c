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

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// EmptyToken renders in place of empty mappings, lists, and null values in
// tree output.
const EmptyToken = "n/a"

const indentStep = "  "

// WriteTree renders JSON-shaped data as a flat indented tree: one line per
// leaf as `indent "key": value`, one line per mapping key before recursing,
// and one line per list item without a key. Mapping keys print in sorted
// order so output is deterministic.
func WriteTree(w io.Writer, data any) error {
	return writeTree(w, "", data)
}

func writeTree(w io.Writer, indent string, data any) error {
	switch v := data.(type) {
	case map[string]any:
		if len(v) == 0 {
			_, err := fmt.Fprintf(w, "%s%s\n", indent, EmptyToken)
			return err
		}

		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			if err := writeTreeEntry(w, indent, k, v[k]); err != nil {
				return err
			}
		}

		return nil
	case []any:
		if len(v) == 0 {
			_, err := fmt.Fprintf(w, "%s%s\n", indent, EmptyToken)
			return err
		}

		for _, item := range v {
			if isComposite(item) {
				if err := writeTree(w, indent, item); err != nil {
					return err
				}

				continue
			}

			if _, err := fmt.Fprintf(w, "%s%s\n", indent, leaf(item)); err != nil {
				return err
			}
		}

		return nil
	default:
		_, err := fmt.Fprintf(w, "%s%s\n", indent, leaf(v))
		return err
	}
}

func writeTreeEntry(w io.Writer, indent, key string, value any) error {
	if isComposite(value) && !isEmptyComposite(value) {
		if _, err := fmt.Fprintf(w, "%s%q:\n", indent, key); err != nil {
			return err
		}

		return writeTree(w, indent+indentStep, value)
	}

	if isComposite(value) {
		_, err := fmt.Fprintf(w, "%s%q: %s\n", indent, key, EmptyToken)
		return err
	}

	_, err := fmt.Fprintf(w, "%s%q: %s\n", indent, key, leaf(value))

	return err
}

func isComposite(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

func isEmptyComposite(v any) bool {
	switch c := v.(type) {
	case map[string]any:
		return len(c) == 0
	case []any:
		return len(c) == 0
	default:
		return false
	}
}

func leaf(v any) string {
	switch l := v.(type) {
	case nil:
		return EmptyToken
	case string:
		return l
	case float64:
		// JSON numbers decode as float64; keep integral values whole.
		if l == float64(int64(l)) {
			return fmt.Sprintf("%d", int64(l))
		}

		return fmt.Sprintf("%v", l)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", l))
	}
}
