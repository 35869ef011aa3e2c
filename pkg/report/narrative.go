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
	"fmt"
	"io"
	"strings"

	"github.com/nodehist/nodehist/pkg/schema"
)

// Narrative writes the fixed validator status summary. Lines are authored
// with the verbose marker prefix; FilterVerbose decides which survive and
// strips the marker from every emitted line.
func Narrative(w io.Writer, tree *schema.Tree, verbose bool) error {
	for _, line := range FilterVerbose(narrativeLines(tree), verbose) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

// FilterVerbose applies the marker convention: in non-verbose mode marked
// lines are dropped entirely; in both modes the marker is stripped from every
// remaining line.
func FilterVerbose(lines []string, verbose bool) []string {
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.HasPrefix(line, schema.VerboseMarker) {
			if !verbose {
				continue
			}

			line = strings.TrimPrefix(line, schema.VerboseMarker)
		}

		out = append(out, line)
	}

	return out
}

// narrativeLines authors the report in its fixed order. Multi-line cell
// renderings (bindings, aliases) expand to one authored line each.
func narrativeLines(tree *schema.Tree) []string {
	var lines []string

	render := func(path ...string) string {
		if v := tree.At(path...); v != nil {
			return v.Render()
		}

		return schema.UnknownToken
	}

	lines = append(lines,
		fmt.Sprintf("Validator %s is %s",
			render(schema.FieldNodeInfo, schema.FieldName),
			render(schema.FieldState)),
		fmt.Sprintf("Update time: %s", render(schema.FieldTimestamp)),
		fmt.Sprintf("%sValidator DID: %s", schema.VerboseMarker,
			render(schema.FieldNodeInfo, schema.FieldDID)),
		fmt.Sprintf("%sVerification key: %s", schema.VerboseMarker,
			render(schema.FieldNodeInfo, schema.FieldVerkey)),
		fmt.Sprintf("%sBLS key: %s", schema.VerboseMarker,
			render(schema.FieldNodeInfo, schema.FieldBLSKey)),
	)

	lines = appendMarked(lines, "Node port: ",
		render(schema.FieldNodeInfo, schema.FieldNodePort))
	lines = appendMarked(lines, "Client port: ",
		render(schema.FieldNodeInfo, schema.FieldClientPort))

	lines = append(lines,
		fmt.Sprintf("Uptime: %s",
			render(schema.FieldNodeInfo, schema.FieldMetrics, schema.FieldUptime)),
		fmt.Sprintf("Total config transactions: %s",
			render(schema.FieldNodeInfo, schema.FieldMetrics, schema.FieldTxnCount, schema.FieldTxnConfig)),
		fmt.Sprintf("Total ledger transactions: %s",
			render(schema.FieldNodeInfo, schema.FieldMetrics, schema.FieldTxnCount, schema.FieldTxnLedger)),
		fmt.Sprintf("Total pool transactions: %s",
			render(schema.FieldNodeInfo, schema.FieldMetrics, schema.FieldTxnCount, schema.FieldTxnPool)),
		fmt.Sprintf("Total audit transactions: %s",
			render(schema.FieldNodeInfo, schema.FieldMetrics, schema.FieldTxnCount, schema.FieldTxnAudit)),
		fmt.Sprintf("%sAverage read transactions per second: %s", schema.VerboseMarker,
			render(schema.FieldNodeInfo, schema.FieldMetrics, schema.FieldAvgPerSec, schema.FieldReadTxns)),
		fmt.Sprintf("%sAverage write transactions per second: %s", schema.VerboseMarker,
			render(schema.FieldNodeInfo, schema.FieldMetrics, schema.FieldAvgPerSec, schema.FieldWriteTxns)),
	)

	lines = append(lines, fmt.Sprintf("Reachable hosts: %s",
		render(schema.FieldPoolInfo, schema.FieldReachableCount)))
	lines = appendAliasLines(lines, tree.CellAt(schema.FieldPoolInfo, schema.FieldReachable))

	lines = append(lines, fmt.Sprintf("Unreachable hosts: %s",
		render(schema.FieldPoolInfo, schema.FieldUnreachableCount)))
	lines = appendAliasLines(lines, tree.CellAt(schema.FieldPoolInfo, schema.FieldUnreachable))

	if software := tree.TreeAt(schema.FieldSoftware); software != nil {
		for _, name := range software.Names() {
			lines = append(lines, fmt.Sprintf("%s%s version: %s",
				schema.VerboseMarker, name, render(schema.FieldSoftware, name)))
		}
	}

	return lines
}

// appendMarked adds one marked line per line of a multi-line rendering.
func appendMarked(lines []string, label, rendering string) []string {
	for i, part := range strings.Split(rendering, "\n") {
		part = strings.TrimPrefix(part, schema.VerboseMarker)

		if i == 0 {
			lines = append(lines, schema.VerboseMarker+label+part)
			continue
		}

		lines = append(lines, schema.VerboseMarker+strings.Repeat(" ", len(label))+part)
	}

	return lines
}

// appendAliasLines adds the alias cell's already-marked lines. An unknown
// alias list contributes nothing beyond its count line.
func appendAliasLines(lines []string, cell *schema.Cell) []string {
	if cell == nil || cell.Unknown() {
		return lines
	}

	rendering := cell.Render()
	if rendering == "" {
		return lines
	}

	return append(lines, strings.Split(rendering, "\n")...)
}
