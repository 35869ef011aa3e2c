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

import "errors"

var (
	errUnknownBackend     = errors.New("unknown node control backend")
	errInvalidServiceName = errors.New("invalid service name")
	errInvalidPackageName = errors.New("invalid package name")
	errNameTooLong        = errors.New("name too long")
	errNoOutput           = errors.New("probe produced no output")
	errNoVersion          = errors.New("package has no installed version")
)
