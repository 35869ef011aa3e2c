package models

// Binding is a discovered listener socket for a declared port. Equality is by
// the full (port, protocol, ip) triple.
type Binding struct {
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	IP       string `json:"ip"`
}

// RunState is the tri-state outcome of a process-control probe.
type RunState string

const (
	RunStateRunning       RunState = "running"
	RunStateStopped       RunState = "stopped"
	RunStateIndeterminate RunState = "indeterminate"
)

// EnabledState is the tri-state outcome of an enablement probe.
type EnabledState string

const (
	EnabledStateEnabled       EnabledState = "enabled"
	EnabledStateDisabled      EnabledState = "disabled"
	EnabledStateIndeterminate EnabledState = "indeterminate"
)

// Record is one decoded statistics sample read from a node's store.
// Records are immutable once persisted; Data is rebuilt fresh on every query.
type Record struct {
	Node      string         `json:"node"`
	Timestamp uint64         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// QueryRequest selects records from one or more node stores. From/To, when
// set, override Count and FromStart.
type QueryRequest struct {
	Count     int      `json:"count"`
	FromStart bool     `json:"from_start"`
	From      *uint64  `json:"from,omitempty"`
	To        *uint64  `json:"to,omitempty"`
	Nodes     []string `json:"nodes,omitempty"`
}

// Unlimited signals "no record limit" for tail-relative queries.
const Unlimited = 0

// RenderMode selects the report output format.
type RenderMode string

const (
	RenderJSON      RenderMode = "json"
	RenderTree      RenderMode = "tree"
	RenderNarrative RenderMode = "narrative"
)

// RenderRequest describes how a record should be rendered.
type RenderRequest struct {
	Mode    RenderMode `json:"mode"`
	Verbose bool       `json:"verbose"`
	Field   string     `json:"field,omitempty"`
}
