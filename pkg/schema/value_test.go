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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodehist/nodehist/pkg/logger"
	"github.com/nodehist/nodehist/pkg/models"
)

func newCell(t *testing.T, kind Kind, raw any) Value {
	t.Helper()

	v, err := kind.newValue(raw, logger.NewTestLogger())
	require.NoError(t, err)

	return v
}

func TestDurationRendering(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "all zero", seconds: 0, want: "0 seconds"},
		{name: "one of each unit", seconds: 90061, want: "1 day, 1 hour, 1 minute, 1 second"},
		{name: "plural units", seconds: 2*86400 + 3*3600 + 4*60 + 5, want: "2 days, 3 hours, 4 minutes, 5 seconds"},
		{name: "exactly one second", seconds: 1, want: "1 second"},
		{name: "seconds only", seconds: 59, want: "59 seconds"},
		{name: "zero components after a larger one still print", seconds: 86460, want: "1 day, 0 hours, 1 minute, 0 seconds"},
		{name: "exact hour", seconds: 3600, want: "1 hour, 0 minutes, 0 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := newCell(t, Duration, tt.seconds)
			assert.Equal(t, tt.want, cell.Render())
		})
	}
}

func TestUnknownIsDistinctFromFalsy(t *testing.T) {
	t.Run("zero int is present", func(t *testing.T) {
		cell := newCell(t, Int, float64(0))
		assert.False(t, cell.Unknown())
		assert.Equal(t, "0", cell.Render())
	})

	t.Run("false bool is present", func(t *testing.T) {
		cell := newCell(t, Bool, false)
		assert.False(t, cell.Unknown())
		assert.Equal(t, "false", cell.Render())
	})

	t.Run("empty alias list is present", func(t *testing.T) {
		cell := newCell(t, Aliases, []any{})
		assert.False(t, cell.Unknown())
		assert.Equal(t, "", cell.Render())
	})

	t.Run("nil raw is unknown", func(t *testing.T) {
		cell := newCell(t, Int, nil)
		assert.True(t, cell.Unknown())
		assert.Nil(t, cell.Raw())
		assert.Equal(t, UnknownToken, cell.Render())
	})
}

func TestFloatRendersTwoDecimals(t *testing.T) {
	assert.Equal(t, "12.35", newCell(t, Float, 12.3456).Render())
	assert.Equal(t, "3.00", newCell(t, Float, float64(3)).Render())
}

func TestStateRendering(t *testing.T) {
	assert.Equal(t, "running", newCell(t, State, "running").Render())
	assert.Equal(t, UnknownStateToken, newCell(t, State, nil).Render())
}

func TestAliasRenderingDeduplicatesAndMarksLines(t *testing.T) {
	cell := newCell(t, Aliases, []any{"node2", "node3", "node2"})
	assert.Equal(t, "#node2\n#node3", cell.Render())

	raw, ok := cell.Raw().([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"node2", "node3"}, raw)
}

func TestCellConversionFailures(t *testing.T) {
	log := logger.NewTestLogger()

	tests := []struct {
		name string
		kind Kind
		raw  any
	}{
		{name: "string kind rejects number", kind: String, raw: float64(7)},
		{name: "int kind rejects fraction", kind: Int, raw: 1.5},
		{name: "duration rejects negative", kind: Duration, raw: float64(-5)},
		{name: "bool kind rejects string", kind: Bool, raw: "yes"},
		{name: "aliases reject scalars", kind: Aliases, raw: "node2"},
		{name: "aliases reject non-string items", kind: Aliases, raw: []any{"node2", 3.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.kind.newValue(tt.raw, log)
			assert.Error(t, err)
		})
	}
}

func TestBindingsCell(t *testing.T) {
	t.Run("declared port before enrichment", func(t *testing.T) {
		v := newCell(t, Bindings, float64(9702))
		cell, ok := v.(*BindingsCell)
		require.True(t, ok)

		port, has := cell.Port()
		assert.True(t, has)
		assert.Equal(t, 9702, port)
		assert.False(t, cell.Unknown())
		assert.Equal(t, "9702", cell.Render())
	})

	t.Run("absent port is unknown", func(t *testing.T) {
		v := newCell(t, Bindings, nil)
		assert.True(t, v.Unknown())
		assert.Equal(t, UnknownToken, v.Render())
	})

	t.Run("empty binding list is present", func(t *testing.T) {
		v := newCell(t, Bindings, float64(9702))
		cell := v.(*BindingsCell)
		cell.SetBindings(nil)

		assert.False(t, cell.Unknown())
		assert.Equal(t, "n/a", cell.Render())
		assert.Equal(t, []models.Binding{}, cell.Raw())
	})

	t.Run("binding list renders one line per binding", func(t *testing.T) {
		v := newCell(t, Bindings, float64(9702))
		cell := v.(*BindingsCell)
		cell.SetBindings([]models.Binding{
			{Port: 9702, Protocol: "tcp", IP: "0.0.0.0/0"},
			{Port: 9702, Protocol: "udp", IP: "10.0.0.5/24"},
		})

		assert.Equal(t, "0.0.0.0/0: 9702 TCP\n10.0.0.5/24: 9702 UDP", cell.Render())
	})

	t.Run("rejects out-of-range port", func(t *testing.T) {
		_, err := Bindings.newValue(float64(70000), logger.NewTestLogger())
		assert.Error(t, err)
	})
}
