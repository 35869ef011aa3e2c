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

package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/nodehist/nodehist/pkg/logger"
)

const (
	// UnknownToken is the rendering of any value whose source data was absent
	// or unparsable. Unknown-ness is distinct from present-but-falsy values:
	// 0, false, and an empty list all render as themselves.
	UnknownToken = "unknown"

	// UnknownStateToken is the process-state cell's unknown rendering.
	UnknownStateToken = "in unknown state"

	// VerboseMarker prefixes report lines that only appear in verbose output.
	VerboseMarker = "#"
)

// Value is one node of a typed tree: either a Cell or a nested *Tree.
type Value interface {
	// Unknown reports whether the value's source data was absent or invalid.
	Unknown() bool

	// Raw returns the normalized underlying value, or nil when unknown.
	Raw() any

	// Render returns the human rendering. Rendering never fails upward: a
	// formatting error degrades to the unknown placeholder and is logged.
	Render() string
}

// CellKind describes one scalar/container cell variant: how raw JSON input is
// normalized and how a present value renders.
type CellKind struct {
	name         string
	unknownToken string
	convert      func(raw any) (any, error)
	render       func(v any) (string, error)
}

func (k *CellKind) Name() string {
	return k.name
}

func (k *CellKind) newValue(raw any, log logger.Logger) (Value, error) {
	cell := &Cell{kind: k, log: log}
	if raw == nil {
		return cell, nil
	}

	v, err := k.convert(raw)
	if err != nil {
		return nil, err
	}

	cell.raw = v

	return cell, nil
}

// Cell is a typed, nullable value with an explicit unknown state.
type Cell struct {
	kind *CellKind
	raw  any
	log  logger.Logger
}

func (c *Cell) Unknown() bool {
	return c.raw == nil
}

func (c *Cell) Raw() any {
	return c.raw
}

func (c *Cell) Render() string {
	if c.raw == nil {
		return c.kind.unknownToken
	}

	s, err := c.kind.render(c.raw)
	if err != nil {
		c.log.Error().
			Err(err).
			Str("kind", c.kind.name).
			Msg("Cell rendering failed; falling back to unknown placeholder")

		return c.kind.unknownToken
	}

	return s
}

// Set replaces the cell's value, normalizing raw the same way construction
// does. Enrichment uses this to fill values computed from live system state.
func (c *Cell) Set(raw any) error {
	if raw == nil {
		c.raw = nil
		return nil
	}

	v, err := c.kind.convert(raw)
	if err != nil {
		return err
	}

	c.raw = v

	return nil
}

// Kind returns the cell's declared kind name.
func (c *Cell) Kind() string {
	return c.kind.name
}

// The cell kind catalogue. Raw input arrives as encoding/json generic values
// (string, float64, bool, []any).
var (
	String = &CellKind{
		name:         "string",
		unknownToken: UnknownToken,
		convert:      convertString,
		render:       renderVerbatim,
	}

	Int = &CellKind{
		name:         "int",
		unknownToken: UnknownToken,
		convert:      convertInt,
		render: func(v any) (string, error) {
			n, ok := v.(int64)
			if !ok {
				return "", fmt.Errorf("%w: %T", errUnexpectedType, v)
			}

			return fmt.Sprintf("%d", n), nil
		},
	}

	Float = &CellKind{
		name:         "float",
		unknownToken: UnknownToken,
		convert:      convertFloat,
		render: func(v any) (string, error) {
			f, ok := v.(float64)
			if !ok {
				return "", fmt.Errorf("%w: %T", errUnexpectedType, v)
			}

			return fmt.Sprintf("%.2f", f), nil
		},
	}

	Bool = &CellKind{
		name:         "bool",
		unknownToken: UnknownToken,
		convert: func(raw any) (any, error) {
			b, ok := raw.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: %T", errUnexpectedType, raw)
			}

			return b, nil
		},
		render: func(v any) (string, error) {
			return fmt.Sprintf("%v", v), nil
		},
	}

	// Duration holds a total-seconds count and renders it decomposed into
	// days, hours, minutes, and seconds.
	Duration = &CellKind{
		name:         "duration",
		unknownToken: UnknownToken,
		convert:      convertSeconds,
		render:       renderDuration,
	}

	// State holds a process state string and renders it verbatim; its unknown
	// placeholder differs from the ordinary one.
	State = &CellKind{
		name:         "state",
		unknownToken: UnknownStateToken,
		convert:      convertString,
		render:       renderVerbatim,
	}

	// Aliases holds a de-duplicated list of node aliases and renders one
	// marker-prefixed line per alias.
	Aliases = &CellKind{
		name:         "aliases",
		unknownToken: UnknownToken,
		convert:      convertAliases,
		render:       renderAliases,
	}
)

func convertString(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %T", errUnexpectedType, raw)
	}

	return s, nil
}

func convertFloat(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", errUnexpectedType, raw)
	}
}

func convertInt(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: %v", errNotIntegral, v)
		}

		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T", errUnexpectedType, raw)
	}
}

func convertSeconds(raw any) (any, error) {
	v, err := convertInt(raw)
	if err != nil {
		return nil, err
	}

	if v.(int64) < 0 {
		return nil, fmt.Errorf("%w: %d", errNegative, v)
	}

	return v, nil
}

func convertAliases(raw any) (any, error) {
	items, ok := raw.([]any)
	if !ok {
		if ss, isStrings := raw.([]string); isStrings {
			items = make([]any, len(ss))
			for i, s := range ss {
				items[i] = s
			}
		} else {
			return nil, fmt.Errorf("%w: %T", errUnexpectedType, raw)
		}
	}

	seen := make(map[string]struct{}, len(items))
	aliases := make([]string, 0, len(items))

	for _, item := range items {
		s, isString := item.(string)
		if !isString {
			return nil, fmt.Errorf("%w: %T", errUnexpectedType, item)
		}

		if _, dup := seen[s]; dup {
			continue
		}

		seen[s] = struct{}{}
		aliases = append(aliases, s)
	}

	return aliases, nil
}

func renderVerbatim(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %T", errUnexpectedType, v)
	}

	return s, nil
}

func renderAliases(v any) (string, error) {
	aliases, ok := v.([]string)
	if !ok {
		return "", fmt.Errorf("%w: %T", errUnexpectedType, v)
	}

	lines := make([]string, 0, len(aliases))
	for _, a := range aliases {
		lines = append(lines, VerboseMarker+a)
	}

	return strings.Join(lines, "\n"), nil
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// renderDuration decomposes total seconds into days, hours, minutes, and
// seconds. A component appears when it is non-zero or when a larger component
// already appeared; unit names pluralize except at exactly 1; an all-zero
// duration renders as "0 seconds".
func renderDuration(v any) (string, error) {
	total, ok := v.(int64)
	if !ok {
		return "", fmt.Errorf("%w: %T", errUnexpectedType, v)
	}

	components := []struct {
		value int64
		unit  string
	}{
		{total / secondsPerDay, "day"},
		{total % secondsPerDay / secondsPerHour, "hour"},
		{total % secondsPerHour / secondsPerMinute, "minute"},
		{total % secondsPerMinute, "second"},
	}

	var parts []string

	for _, comp := range components {
		if comp.value == 0 && len(parts) == 0 {
			continue
		}

		parts = append(parts, pluralize(comp.value, comp.unit))
	}

	if len(parts) == 0 {
		return "0 seconds", nil
	}

	return strings.Join(parts, ", "), nil
}

func pluralize(value int64, unit string) string {
	if value == 1 {
		return fmt.Sprintf("1 %s", unit)
	}

	return fmt.Sprintf("%d %ss", value, unit)
}
