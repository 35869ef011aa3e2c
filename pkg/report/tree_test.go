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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderTree(t *testing.T, data any) string {
	t.Helper()

	var buf strings.Builder

	require.NoError(t, WriteTree(&buf, data))

	return buf.String()
}

func TestWriteTree(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{
			name: "flat mapping with sorted keys",
			data: map[string]any{"zeta": "z", "alpha": float64(1)},
			want: "\"alpha\": 1\n\"zeta\": z\n",
		},
		{
			name: "nested mapping indents children",
			data: map[string]any{
				"pool-info": map[string]any{
					"reachable-nodes-count": float64(2),
				},
			},
			want: "\"pool-info\":\n  \"reachable-nodes-count\": 2\n",
		},
		{
			name: "empty mapping value renders as placeholder",
			data: map[string]any{"metrics": map[string]any{}},
			want: "\"metrics\": n/a\n",
		},
		{
			name: "empty list value renders as placeholder",
			data: map[string]any{"unreachable-nodes": []any{}},
			want: "\"unreachable-nodes\": n/a\n",
		},
		{
			name: "list items have no key",
			data: map[string]any{"reachable-nodes": []any{"node1", "node2"}},
			want: "\"reachable-nodes\":\n  node1\n  node2\n",
		},
		{
			name: "null leaf renders as placeholder",
			data: map[string]any{"verkey": nil},
			want: "\"verkey\": n/a\n",
		},
		{
			name: "integral float prints whole",
			data: map[string]any{"uptime": float64(172800)},
			want: "\"uptime\": 172800\n",
		},
		{
			name: "fractional float keeps its decimals",
			data: map[string]any{"read-transactions": 0.05},
			want: "\"read-transactions\": 0.05\n",
		},
		{
			name: "bare scalar",
			data: "1.12.4",
			want: "1.12.4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderTree(t, tt.data))
		})
	}
}

func TestWriteTreeDeepNesting(t *testing.T) {
	data := map[string]any{
		"node-info": map[string]any{
			"metrics": map[string]any{
				"transaction-count": map[string]any{
					"ledger": float64(332),
				},
			},
			"name": "validator1",
		},
	}

	want := strings.Join([]string{
		`"node-info":`,
		`  "metrics":`,
		`    "transaction-count":`,
		`      "ledger": 332`,
		`  "name": validator1`,
	}, "\n") + "\n"

	assert.Equal(t, want, renderTree(t, data))
}
