// Package model holds the plain data types shared across the agent:
// the schema-backed entities of the mon database and the small value
// types the SNMP client and handlers pass between each other.
package model

import "time"

// Node is a managed device, seeded externally and mutated only by the
// task runner (last-poll metadata) and the health handler (sysName,
// sysObjectID).
type Node struct {
	ID          int64
	Name        string
	IPv4        string
	Community   string
	TimeoutMS   int
	Manage      bool
	SysName     string
	SysObjectID string
	LastPollDt  time.Time
}

// RequestType enumerates how a Request is issued against a node.
type RequestType string

const (
	RequestTypeGet  RequestType = "GET"
	RequestTypeWalk RequestType = "WALK"
)

// Request is an immutable, seeded OID binding plus how to fetch it.
type Request struct {
	ID     int64
	Name   string
	OID    string
	Type   RequestType
	Manage bool
}

// NodeGroup binds a named set of nodes (via node_group_ref).
type NodeGroup struct {
	ID   int64
	Name string
}

// RequestGroup binds a named set of requests (via request_group_ref) to
// a single handler.
type RequestGroup struct {
	ID          int64
	Name        string
	HandlerID   int64
	ElementType string
	Manage      bool
}

// Task binds one NodeGroup to one RequestGroup.
type Task struct {
	ID             int64
	NodeGroupID    int64
	RequestGroupID int64
	Manage         bool
}
