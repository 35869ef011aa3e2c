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
	"os/exec"
	"regexp"
	"strings"

	"github.com/nodehist/nodehist/pkg/logger"
	"github.com/nodehist/nodehist/pkg/models"
)

// Control-plane backends selectable via configuration.
const (
	BackendSystemd    = "systemd"
	BackendSupervisor = "supervisor"
)

const maxServiceNameLength = 256

// validServiceName ensures service names only contain alphanumeric chars,
// hyphens, underscores, and periods.
var validServiceName = regexp.MustCompile(`^[a-zA-Z0-9\-_.]+$`)

// runCommand executes a probe command and returns its trimmed output. Probe
// tools report state through both output and exit code (systemctl is-active
// exits non-zero for inactive units), so output wins when present.
type runCommand func(ctx context.Context, name string, args ...string) (string, error)

func execCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()

	text := strings.TrimSpace(string(out))
	if err != nil && text == "" {
		return "", fmt.Errorf("running %s: %w", name, err)
	}

	return text, nil
}

// NewProcessControl builds the probe for the configured backend.
func NewProcessControl(backend, service string, log logger.Logger) (ProcessControl, error) {
	if err := validateName(service, errInvalidServiceName); err != nil {
		return nil, err
	}

	switch backend {
	case BackendSystemd, "":
		return &systemdControl{service: service, run: execCommand, log: log}, nil
	case BackendSupervisor:
		return &supervisorControl{service: service, run: execCommand, log: log}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownBackend, backend)
	}
}

func validateName(name string, invalid error) error {
	if len(name) > maxServiceNameLength {
		return fmt.Errorf("%w: max %d characters", errNameTooLong, maxServiceNameLength)
	}

	if !validServiceName.MatchString(name) {
		return fmt.Errorf("%w: %q", invalid, name)
	}

	return nil
}

// systemdControl probes via systemctl.
type systemdControl struct {
	service string
	run     runCommand
	log     logger.Logger
}

func (s *systemdControl) RunState(ctx context.Context) (models.RunState, error) {
	out, err := s.run(ctx, "systemctl", "is-active", s.service)
	if err != nil {
		return models.RunStateIndeterminate, err
	}

	switch out {
	case "active", "activating":
		return models.RunStateRunning, nil
	case "inactive", "failed", "deactivating":
		return models.RunStateStopped, nil
	default:
		s.log.Info().Str("output", out).Msg("Unrecognized systemctl is-active output")
		return models.RunStateIndeterminate, nil
	}
}

func (s *systemdControl) EnabledState(ctx context.Context) (models.EnabledState, error) {
	out, err := s.run(ctx, "systemctl", "is-enabled", s.service)
	if err != nil {
		return models.EnabledStateIndeterminate, err
	}

	switch out {
	case "enabled", "enabled-runtime", "static":
		return models.EnabledStateEnabled, nil
	case "disabled", "masked":
		return models.EnabledStateDisabled, nil
	default:
		s.log.Info().Str("output", out).Msg("Unrecognized systemctl is-enabled output")
		return models.EnabledStateIndeterminate, nil
	}
}

// supervisorControl probes via supervisorctl.
type supervisorControl struct {
	service string
	run     runCommand
	log     logger.Logger
}

func (s *supervisorControl) RunState(ctx context.Context) (models.RunState, error) {
	out, err := s.run(ctx, "supervisorctl", "status", s.service)
	if err != nil {
		return models.RunStateIndeterminate, err
	}

	// Status lines look like "validator  RUNNING  pid 4129, uptime 1:02:33".
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return models.RunStateIndeterminate, fmt.Errorf("%w: %q", errNoOutput, out)
	}

	switch fields[1] {
	case "RUNNING", "STARTING":
		return models.RunStateRunning, nil
	case "STOPPED", "EXITED", "FATAL", "STOPPING":
		return models.RunStateStopped, nil
	default:
		s.log.Info().Str("output", out).Msg("Unrecognized supervisorctl status output")
		return models.RunStateIndeterminate, nil
	}
}

func (s *supervisorControl) EnabledState(ctx context.Context) (models.EnabledState, error) {
	out, err := s.run(ctx, "supervisorctl", "avail")
	if err != nil {
		return models.EnabledStateIndeterminate, err
	}

	// Avail lines look like "validator  in use  auto  999:999".
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != s.service {
			continue
		}

		rest := strings.Join(fields[1:], " ")
		if strings.HasPrefix(rest, "in use") {
			return models.EnabledStateEnabled, nil
		}

		if strings.HasPrefix(rest, "avail") {
			return models.EnabledStateDisabled, nil
		}

		s.log.Info().Str("line", line).Msg("Unrecognized supervisorctl avail line")

		return models.EnabledStateIndeterminate, nil
	}

	return models.EnabledStateIndeterminate, nil
}
