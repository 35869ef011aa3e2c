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

// Record field names. Stored records are JSON objects keyed by these names;
// any field may be absent, which builds as unknown.
const (
	FieldResponseVersion = "response-version"
	FieldTimestamp       = "timestamp"
	FieldNodeInfo        = "node-info"
	FieldState           = "state"
	FieldEnabled         = "enabled"
	FieldPoolInfo        = "pool-info"
	FieldSoftware        = "software-version"

	FieldName       = "name"
	FieldDID        = "did"
	FieldVerkey     = "verkey"
	FieldBLSKey     = "bls-key"
	FieldNodePort   = "node-port"
	FieldClientPort = "client-port"
	FieldMetrics    = "metrics"

	FieldUptime    = "uptime"
	FieldTxnCount  = "transaction-count"
	FieldAvgPerSec = "average-per-second"

	FieldTxnConfig = "config"
	FieldTxnLedger = "ledger"
	FieldTxnPool   = "pool"
	FieldTxnAudit  = "audit"

	FieldReadTxns  = "read-transactions"
	FieldWriteTxns = "write-transactions"

	FieldReachableCount   = "reachable-nodes-count"
	FieldReachable        = "reachable-nodes"
	FieldUnreachableCount = "unreachable-nodes-count"
	FieldUnreachable      = "unreachable-nodes"
	FieldTotalCount       = "total-nodes-count"
)

// Validator declares the shape of one stored statistics record. packages
// lists the software packages whose versions the record reports; each gets a
// string field under software-version.
func Validator(packages []string) *Schema {
	software := &Schema{Name: FieldSoftware}
	for _, pkg := range packages {
		software.Fields = append(software.Fields, Field{Name: pkg, Kind: String})
	}

	return &Schema{
		Name: "validator",
		Fields: []Field{
			{Name: FieldResponseVersion, Kind: String},
			{Name: FieldTimestamp, Kind: String},
			{Name: FieldNodeInfo, Kind: &Schema{
				Name: FieldNodeInfo,
				Fields: []Field{
					{Name: FieldName, Kind: String},
					{Name: FieldDID, Kind: String},
					{Name: FieldVerkey, Kind: String},
					{Name: FieldBLSKey, Kind: String},
					{Name: FieldNodePort, Kind: Bindings},
					{Name: FieldClientPort, Kind: Bindings},
					{Name: FieldMetrics, Kind: &Schema{
						Name: FieldMetrics,
						Fields: []Field{
							{Name: FieldUptime, Kind: Duration},
							{Name: FieldTxnCount, Kind: &Schema{
								Name: FieldTxnCount,
								Fields: []Field{
									{Name: FieldTxnConfig, Kind: Int},
									{Name: FieldTxnLedger, Kind: Int},
									{Name: FieldTxnPool, Kind: Int},
									{Name: FieldTxnAudit, Kind: Int},
								},
							}},
							{Name: FieldAvgPerSec, Kind: &Schema{
								Name: FieldAvgPerSec,
								Fields: []Field{
									{Name: FieldReadTxns, Kind: Float},
									{Name: FieldWriteTxns, Kind: Float},
								},
							}},
						},
					}},
				},
			}},
			{Name: FieldState, Kind: State},
			{Name: FieldEnabled, Kind: Bool},
			{Name: FieldPoolInfo, Kind: &Schema{
				Name: FieldPoolInfo,
				Fields: []Field{
					{Name: FieldReachableCount, Kind: Int},
					{Name: FieldReachable, Kind: Aliases},
					{Name: FieldUnreachableCount, Kind: Int},
					{Name: FieldUnreachable, Kind: Aliases},
					{Name: FieldTotalCount, Kind: Int},
				},
			}},
			{Name: FieldSoftware, Kind: software},
		},
	}
}
