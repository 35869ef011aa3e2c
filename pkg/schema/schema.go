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

// Package schema turns loosely-structured JSON records into typed value trees
// with an explicit "unknown" state per field. Record shapes are declared once
// as ordered (name, kind) pairs; kinds are cell variants or nested schemas.
package schema

import (
	"encoding/json"

	"github.com/nodehist/nodehist/pkg/logger"
)

// Kind is the declared shape of one field: a cell kind or a nested *Schema.
type Kind interface {
	// newValue builds a typed value from raw JSON input. A nil raw always
	// succeeds and yields an unknown value of this kind.
	newValue(raw any, log logger.Logger) (Value, error)
}

// Field pairs a record field name with its declared kind. Field order is
// significant for text rendering, not for JSON serialization.
type Field struct {
	Name string
	Kind Kind
}

// Schema is an ordered, recursively composable record shape.
type Schema struct {
	Name   string
	Fields []Field
}

// newValue lets a Schema serve as a nested field kind.
func (s *Schema) newValue(raw any, log logger.Logger) (Value, error) {
	return s.Build(raw, log), nil
}

// Build constructs a typed tree from a raw JSON object. A nil raw means "no
// data for this record": every field comes out unknown. Each field is built
// independently; a conversion failure is logged with the field and schema
// names and degrades that one field to unknown, never the whole record.
func (s *Schema) Build(raw any, log logger.Logger) *Tree {
	obj, _ := raw.(map[string]any)

	tree := &Tree{values: make(map[string]Value, len(s.Fields))}

	for _, f := range s.Fields {
		var fieldRaw any
		if obj != nil {
			fieldRaw = obj[f.Name]
		}

		v, err := f.Kind.newValue(fieldRaw, log)
		if err != nil {
			log.Error().
				Err(err).
				Str("field", f.Name).
				Str("schema", s.Name).
				Msg("Field construction failed; value degraded to unknown")

			// Unknown construction cannot fail.
			v, _ = f.Kind.newValue(nil, log)
		}

		tree.names = append(tree.names, f.Name)
		tree.values[f.Name] = v
	}

	return tree
}

// Tree is a typed value tree with ordered-key iteration and keyed lookup.
type Tree struct {
	names  []string
	values map[string]Value
}

// Names returns the field names in declaration order.
func (t *Tree) Names() []string {
	return t.names
}

// Get returns the value for one field name.
func (t *Tree) Get(name string) (Value, bool) {
	v, ok := t.values[name]
	return v, ok
}

// At walks nested trees along path and returns the value there, or nil when
// any segment is missing or not a subtree.
func (t *Tree) At(path ...string) Value {
	cur := t

	for i, name := range path {
		v, ok := cur.values[name]
		if !ok {
			return nil
		}

		if i == len(path)-1 {
			return v
		}

		sub, isTree := v.(*Tree)
		if !isTree {
			return nil
		}

		cur = sub
	}

	return nil
}

// CellAt returns the cell at path, or nil when absent or not a cell.
func (t *Tree) CellAt(path ...string) *Cell {
	c, _ := t.At(path...).(*Cell)
	return c
}

// BindingsAt returns the bindings cell at path, or nil.
func (t *Tree) BindingsAt(path ...string) *BindingsCell {
	b, _ := t.At(path...).(*BindingsCell)
	return b
}

// TreeAt returns the subtree at path, or nil.
func (t *Tree) TreeAt(path ...string) *Tree {
	sub, _ := t.At(path...).(*Tree)
	return sub
}

// Unknown reports whether every value in the tree is unknown.
func (t *Tree) Unknown() bool {
	for _, name := range t.names {
		if !t.values[name].Unknown() {
			return false
		}
	}

	return true
}

// Raw collapses the tree to plain JSON-shaped data: cells become their raw
// value (unknown becomes nil), subtrees become maps.
func (t *Tree) Raw() any {
	out := make(map[string]any, len(t.names))
	for _, name := range t.names {
		out[name] = t.values[name].Raw()
	}

	return out
}

// Render returns the canonical JSON rendering of the tree.
func (t *Tree) Render() string {
	b, err := json.Marshal(t.Raw())
	if err != nil {
		return UnknownToken
	}

	return string(b)
}

// MarshalJSON serializes the tree with cells collapsed to their raw values.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Raw())
}
