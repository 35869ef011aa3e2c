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
	"github.com/nodehist/nodehist/pkg/models"
)

const maxPort = 65535

// Bindings is the declared kind for port fields. The stored value is a plain
// port number; enrichment replaces it with the list of listener bindings
// discovered for that port. An empty list is a present value, distinct from a
// port that is absent from the record.
var Bindings Kind = bindingsKind{}

type bindingsKind struct{}

func (bindingsKind) newValue(raw any, _ logger.Logger) (Value, error) {
	cell := &BindingsCell{}
	if raw == nil {
		return cell, nil
	}

	port, ok := raw.(float64)
	if !ok || port != math.Trunc(port) {
		return nil, fmt.Errorf("%w: %v", errNotIntegral, raw)
	}

	if port < 0 || port > maxPort {
		return nil, fmt.Errorf("%w: %v", errPortOutOfRange, raw)
	}

	cell.port = int(port)
	cell.hasPort = true

	return cell, nil
}

// BindingsCell carries a declared port before enrichment and the discovered
// binding list after it.
type BindingsCell struct {
	port     int
	hasPort  bool
	bindings []models.Binding
	enriched bool
}

func (b *BindingsCell) Unknown() bool {
	return !b.hasPort && !b.enriched
}

// Port returns the declared port when the record carried one.
func (b *BindingsCell) Port() (int, bool) {
	return b.port, b.hasPort
}

// SetBindings replaces the declared port with the discovered binding list.
// A nil list is stored as an empty one: "no bindings found" is a present
// result.
func (b *BindingsCell) SetBindings(bindings []models.Binding) {
	if bindings == nil {
		bindings = []models.Binding{}
	}

	b.bindings = bindings
	b.enriched = true
}

// SetUnknown discards the cell's value after a failed probe.
func (b *BindingsCell) SetUnknown() {
	b.hasPort = false
	b.enriched = false
	b.bindings = nil
}

func (b *BindingsCell) Raw() any {
	switch {
	case b.enriched:
		return b.bindings
	case b.hasPort:
		return b.port
	default:
		return nil
	}
}

func (b *BindingsCell) Render() string {
	switch {
	case b.enriched && len(b.bindings) == 0:
		return "n/a"
	case b.enriched:
		lines := make([]string, 0, len(b.bindings))
		for _, bind := range b.bindings {
			lines = append(lines, fmt.Sprintf("%s: %d %s", bind.IP, bind.Port, strings.ToUpper(bind.Protocol)))
		}

		return strings.Join(lines, "\n")
	case b.hasPort:
		return fmt.Sprintf("%d", b.port)
	default:
		return UnknownToken
	}
}
