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

// Package config loads the reader's configuration from a JSON file with
// environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nodehist/nodehist/pkg/enrich"
	"github.com/nodehist/nodehist/pkg/logger"
)

// Environment variables overriding file-based settings.
const (
	EnvStoreDir    = "NODEHIST_STORE_DIR"
	EnvService     = "NODEHIST_SERVICE"
	EnvNodeControl = "NODE_CONTROL"
)

// Config holds everything the reader needs: where the per-node stores live,
// which control-plane backend manages the validator process, and which
// software packages the records report versions for.
type Config struct {
	StoreDir    string         `json:"store_dir"`
	Service     string         `json:"service"`
	NodeControl string         `json:"node_control"`
	Packages    []string       `json:"packages"`
	Logging     *logger.Config `json:"logging,omitempty"`
}

func Default() *Config {
	return &Config{
		StoreDir:    "/var/lib/nodehist/data",
		Service:     "validator",
		NodeControl: enrich.BackendSystemd,
		Packages:    []string{"validator-node"},
	}
}

// Load reads the config file at path, or the defaults when path is empty,
// and applies environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}

		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStoreDir); v != "" {
		c.StoreDir = v
	}

	if v := os.Getenv(EnvService); v != "" {
		c.Service = v
	}

	if v := os.Getenv(EnvNodeControl); v != "" {
		c.NodeControl = v
	}
}

func (c *Config) validate() error {
	if c.StoreDir == "" {
		return errStoreDirRequired
	}

	switch c.NodeControl {
	case "", enrich.BackendSystemd, enrich.BackendSupervisor:
		return nil
	default:
		return fmt.Errorf("%w: %s", errInvalidNodeControl, c.NodeControl)
	}
}
