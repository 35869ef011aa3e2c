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

// Package report renders typed record trees or raw records as canonical
// JSON, a flat indented tree, or the fixed human narrative.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nodehist/nodehist/pkg/models"
	"github.com/nodehist/nodehist/pkg/schema"
)

// JSON returns the canonical JSON document for a typed tree: cells collapse
// to their raw values, unknown becomes null, binding lists serialize as
// lists of objects.
func JSON(tree *schema.Tree) (string, error) {
	b, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing record: %w", err)
	}

	return string(b), nil
}

// SelectPath resolves a dotted field path against raw record data.
func SelectPath(data map[string]any, path string) (any, error) {
	var cur any = data

	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPath, path)
		}

		cur, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPath, path)
		}
	}

	return cur, nil
}

// Render writes one record in the requested mode. When a field path is
// requested, only that field renders; a missing path returns ErrMissingPath
// and produces no output for the request.
func Render(w io.Writer, rec models.Record, tree *schema.Tree, req models.RenderRequest) error {
	if req.Field != "" {
		value, err := SelectPath(rec.Data, req.Field)
		if err != nil {
			return err
		}

		return WriteTree(w, value)
	}

	switch req.Mode {
	case models.RenderJSON:
		doc, err := JSON(tree)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, doc)

		return err
	case models.RenderTree:
		return WriteTree(w, rec.Data)
	case models.RenderNarrative:
		return Narrative(w, tree, req.Verbose)
	default:
		return fmt.Errorf("%w: %s", errUnknownMode, req.Mode)
	}
}
