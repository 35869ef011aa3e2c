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

// Package enrich fills record fields that are still unknown after schema
// construction with values computed from live system probes: listener
// bindings for declared ports, process run/enabled state, and installed
// package versions. Probes are injectable strategies so the normalization
// logic is testable without invoking real OS tools.
package enrich

import (
	"context"

	"github.com/nodehist/nodehist/pkg/models"
)

// ProcessControl probes the control plane managing the validator process.
type ProcessControl interface {
	// RunState reports whether the process is running. Any unrecognized
	// probe output maps to indeterminate, never to an error escaping here.
	RunState(ctx context.Context) (models.RunState, error)

	// EnabledState reports whether the process is enabled at boot.
	EnabledState(ctx context.Context) (models.EnabledState, error)
}

// SocketTable probes the live socket table for listener bindings on a port.
type SocketTable interface {
	// Bindings returns the discovered (port, protocol, ip) triples for the
	// declared port. No matching sockets is an empty list, not an error.
	Bindings(ctx context.Context, port int) ([]models.Binding, error)
}

// PackageVersions introspects locally installed software packages.
type PackageVersions interface {
	// InstalledVersion returns the installed version string for a package.
	InstalledVersion(ctx context.Context, name string) (string, error)
}
