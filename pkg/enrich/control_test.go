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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodehist/nodehist/pkg/logger"
	"github.com/nodehist/nodehist/pkg/models"
)

func fixedOutput(out string) runCommand {
	return func(context.Context, string, ...string) (string, error) {
		return out, nil
	}
}

func TestNewProcessControl(t *testing.T) {
	log := logger.NewTestLogger()

	t.Run("defaults to systemd", func(t *testing.T) {
		control, err := NewProcessControl("", "validator", log)
		require.NoError(t, err)
		assert.IsType(t, &systemdControl{}, control)
	})

	t.Run("supervisor backend", func(t *testing.T) {
		control, err := NewProcessControl(BackendSupervisor, "validator", log)
		require.NoError(t, err)
		assert.IsType(t, &supervisorControl{}, control)
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		_, err := NewProcessControl("launchd", "validator", log)
		assert.ErrorIs(t, err, errUnknownBackend)
	})

	t.Run("service name with shell metacharacters rejected", func(t *testing.T) {
		_, err := NewProcessControl(BackendSystemd, "validator; rm -rf /", log)
		assert.ErrorIs(t, err, errInvalidServiceName)
	})
}

func TestSystemdRunState(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   models.RunState
	}{
		{name: "active", output: "active", want: models.RunStateRunning},
		{name: "activating", output: "activating", want: models.RunStateRunning},
		{name: "inactive", output: "inactive", want: models.RunStateStopped},
		{name: "failed", output: "failed", want: models.RunStateStopped},
		{name: "unrecognized output is indeterminate", output: "reloading", want: models.RunStateIndeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			control := &systemdControl{service: "validator", run: fixedOutput(tt.output), log: logger.NewTestLogger()}

			state, err := control.RunState(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, state)
		})
	}
}

func TestSystemdEnabledState(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   models.EnabledState
	}{
		{name: "enabled", output: "enabled", want: models.EnabledStateEnabled},
		{name: "disabled", output: "disabled", want: models.EnabledStateDisabled},
		{name: "garbage is indeterminate", output: "linked", want: models.EnabledStateIndeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			control := &systemdControl{service: "validator", run: fixedOutput(tt.output), log: logger.NewTestLogger()}

			state, err := control.EnabledState(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, state)
		})
	}
}

func TestSupervisorRunState(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   models.RunState
	}{
		{
			name:   "running",
			output: "validator                        RUNNING   pid 4129, uptime 1:02:33",
			want:   models.RunStateRunning,
		},
		{
			name:   "stopped",
			output: "validator                        STOPPED   Nov 14 10:02 PM",
			want:   models.RunStateStopped,
		},
		{
			name:   "fatal counts as stopped",
			output: "validator                        FATAL     Exited too quickly",
			want:   models.RunStateStopped,
		},
		{
			name:   "unrecognized status is indeterminate",
			output: "validator                        BACKOFF   Exited too quickly",
			want:   models.RunStateIndeterminate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			control := &supervisorControl{service: "validator", run: fixedOutput(tt.output), log: logger.NewTestLogger()}

			state, err := control.RunState(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, state)
		})
	}
}

func TestSupervisorEnabledState(t *testing.T) {
	avail := "collector                        in use    auto      999:999\n" +
		"validator                        in use    auto      998:998\n" +
		"spare                            avail     manual    997:997"

	t.Run("in use maps to enabled", func(t *testing.T) {
		control := &supervisorControl{service: "validator", run: fixedOutput(avail), log: logger.NewTestLogger()}

		state, err := control.EnabledState(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.EnabledStateEnabled, state)
	})

	t.Run("avail maps to disabled", func(t *testing.T) {
		control := &supervisorControl{service: "spare", run: fixedOutput(avail), log: logger.NewTestLogger()}

		state, err := control.EnabledState(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.EnabledStateDisabled, state)
	})

	t.Run("absent service is indeterminate", func(t *testing.T) {
		control := &supervisorControl{service: "ghost", run: fixedOutput(avail), log: logger.NewTestLogger()}

		state, err := control.EnabledState(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.EnabledStateIndeterminate, state)
	})
}
