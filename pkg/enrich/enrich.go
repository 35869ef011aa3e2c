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

package enrich

import (
	"context"

	"github.com/nodehist/nodehist/pkg/logger"
	"github.com/nodehist/nodehist/pkg/models"
	"github.com/nodehist/nodehist/pkg/schema"
)

// Enricher applies the dynamic enrichment policies to a parsed record tree.
// Every probe failure degrades the affected field to unknown and is logged;
// nothing here aborts record processing. Any probe may be nil, which skips
// that policy.
type Enricher struct {
	control  ProcessControl
	sockets  SocketTable
	packages PackageVersions
	log      logger.Logger
}

func New(control ProcessControl, sockets SocketTable, packages PackageVersions, log logger.Logger) *Enricher {
	return &Enricher{
		control:  control,
		sockets:  sockets,
		packages: packages,
		log:      log,
	}
}

// Apply runs all enrichment policies on one record's tree, once, after
// schema construction. Binding probes are memoized by port for the pass.
func (e *Enricher) Apply(ctx context.Context, tree *schema.Tree) {
	e.applyBindings(ctx, tree)
	e.applyState(ctx, tree)
	e.applyEnabled(ctx, tree)
	e.applyVersions(ctx, tree)
}

func (e *Enricher) applyBindings(ctx context.Context, tree *schema.Tree) {
	if e.sockets == nil {
		return
	}

	// One socket-table consultation per distinct port within this pass.
	memo := make(map[int][]models.Binding)

	for _, field := range []string{schema.FieldNodePort, schema.FieldClientPort} {
		cell := tree.BindingsAt(schema.FieldNodeInfo, field)
		if cell == nil || cell.Unknown() {
			continue
		}

		port, ok := cell.Port()
		if !ok {
			continue
		}

		bindings, cached := memo[port]
		if !cached {
			var err error

			bindings, err = e.sockets.Bindings(ctx, port)
			if err != nil {
				e.log.Warn().
					Err(err).
					Int("port", port).
					Str("field", field).
					Msg("Socket table probe failed; bindings degraded to unknown")

				cell.SetUnknown()

				continue
			}

			memo[port] = bindings
		}

		cell.SetBindings(bindings)
	}
}

func (e *Enricher) applyState(ctx context.Context, tree *schema.Tree) {
	if e.control == nil {
		return
	}

	cell := tree.CellAt(schema.FieldState)
	if cell == nil || !cell.Unknown() {
		return
	}

	state, err := e.control.RunState(ctx)
	if err != nil {
		e.log.Info().Err(err).Msg("Process state probe failed; state stays unknown")
		return
	}

	if state == models.RunStateIndeterminate {
		e.log.Info().Msg("Process state probe was indeterminate")
		return
	}

	if err := cell.Set(string(state)); err != nil {
		e.log.Error().Err(err).Msg("Setting process state failed")
	}
}

func (e *Enricher) applyEnabled(ctx context.Context, tree *schema.Tree) {
	if e.control == nil {
		return
	}

	cell := tree.CellAt(schema.FieldEnabled)
	if cell == nil || !cell.Unknown() {
		return
	}

	state, err := e.control.EnabledState(ctx)
	if err != nil {
		e.log.Info().Err(err).Msg("Enabled state probe failed; flag stays unknown")
		return
	}

	switch state {
	case models.EnabledStateEnabled:
		err = cell.Set(true)
	case models.EnabledStateDisabled:
		err = cell.Set(false)
	case models.EnabledStateIndeterminate:
		e.log.Info().Msg("Enabled state probe was indeterminate")
		return
	}

	if err != nil {
		e.log.Error().Err(err).Msg("Setting enabled flag failed")
	}
}

func (e *Enricher) applyVersions(ctx context.Context, tree *schema.Tree) {
	if e.packages == nil {
		return
	}

	software := tree.TreeAt(schema.FieldSoftware)
	if software == nil {
		return
	}

	for _, name := range software.Names() {
		cell := software.CellAt(name)
		if cell == nil || !cell.Unknown() {
			continue
		}

		version, err := e.packages.InstalledVersion(ctx, name)
		if err != nil {
			e.log.Warn().
				Err(err).
				Str("package", name).
				Msg("Package version introspection failed; version stays unknown")

			continue
		}

		if err := cell.Set(version); err != nil {
			e.log.Error().Err(err).Str("package", name).Msg("Setting package version failed")
		}
	}
}
