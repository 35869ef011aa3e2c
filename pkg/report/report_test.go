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

package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodehist/nodehist/pkg/models"
)

func TestSelectPath(t *testing.T) {
	data := map[string]any{
		"node-info": map[string]any{
			"name": "validator1",
			"metrics": map[string]any{
				"uptime": float64(4800),
			},
		},
		"state": "running",
	}

	tests := []struct {
		name    string
		path    string
		want    any
		missing bool
	}{
		{name: "top-level field", path: "state", want: "running"},
		{name: "nested field", path: "node-info.name", want: "validator1"},
		{name: "deep field", path: "node-info.metrics.uptime", want: float64(4800)},
		{name: "subtree", path: "node-info.metrics", want: map[string]any{"uptime": float64(4800)}},
		{name: "missing segment", path: "node-info.missing", missing: true},
		{name: "descending through a leaf", path: "state.deeper", missing: true},
		{name: "missing root", path: "nope", missing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectPath(data, tt.path)
			if tt.missing {
				require.ErrorIs(t, err, ErrMissingPath)
				assert.Contains(t, err.Error(), tt.path)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderFieldSelection(t *testing.T) {
	rec := models.Record{
		Node:      "validator1",
		Timestamp: 1700000000,
		Data: map[string]any{
			"node-info": map[string]any{"name": "validator1"},
		},
	}

	t.Run("renders only the selected field", func(t *testing.T) {
		var buf strings.Builder

		err := Render(&buf, rec, nil, models.RenderRequest{
			Mode:  models.RenderNarrative,
			Field: "node-info.name",
		})
		require.NoError(t, err)
		assert.Equal(t, "validator1\n", buf.String())
	})

	t.Run("missing field produces an error and no output", func(t *testing.T) {
		var buf strings.Builder

		err := Render(&buf, rec, nil, models.RenderRequest{
			Mode:  models.RenderJSON,
			Field: "pool-info.total-nodes-count",
		})
		require.ErrorIs(t, err, ErrMissingPath)
		assert.Empty(t, buf.String())
	})
}

func TestRenderJSONMode(t *testing.T) {
	tree := sampleTree(t)

	var buf strings.Builder

	err := Render(&buf, models.Record{}, tree, models.RenderRequest{Mode: models.RenderJSON})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &doc))

	nodeInfo, ok := doc["node-info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "validator1", nodeInfo["name"])

	// Fields the record never carried serialize as explicit nulls.
	assert.Contains(t, doc, "enabled")
	assert.Nil(t, doc["enabled"])
}

func TestRenderTreeMode(t *testing.T) {
	rec := models.Record{Data: map[string]any{"state": "running"}}

	var buf strings.Builder

	err := Render(&buf, rec, nil, models.RenderRequest{Mode: models.RenderTree})
	require.NoError(t, err)
	assert.Equal(t, "\"state\": running\n", buf.String())
}

func TestRenderNarrativeMode(t *testing.T) {
	var buf strings.Builder

	err := Render(&buf, models.Record{}, sampleTree(t), models.RenderRequest{Mode: models.RenderNarrative})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Validator validator1 is running\n")
}

func TestRenderUnknownMode(t *testing.T) {
	err := Render(&strings.Builder{}, models.Record{}, nil, models.RenderRequest{Mode: "yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml")
}
