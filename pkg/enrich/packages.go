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
	"fmt"

	"github.com/nodehist/nodehist/pkg/logger"
)

// DpkgVersions introspects installed package versions through dpkg-query.
type DpkgVersions struct {
	run runCommand
	log logger.Logger
}

func NewDpkgVersions(log logger.Logger) *DpkgVersions {
	return &DpkgVersions{run: execCommand, log: log}
}

func (d *DpkgVersions) InstalledVersion(ctx context.Context, name string) (string, error) {
	if err := validateName(name, errInvalidPackageName); err != nil {
		return "", err
	}

	out, err := d.run(ctx, "dpkg-query", "-W", "-f=${Version}", name)
	if err != nil {
		return "", fmt.Errorf("querying package %s: %w", name, err)
	}

	if out == "" {
		return "", fmt.Errorf("%w: %s", errNoVersion, name)
	}

	return out, nil
}
