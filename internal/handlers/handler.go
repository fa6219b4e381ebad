// Package handlers holds the domain-specific parsers that turn one
// node's raw SNMP captures into normalized inventory, FDB, and ARP
// rows. Each handler is pure with respect to its inputs except for the
// store writes it performs; none of them talk to the SNMP client or
// know anything about scheduling.
package handlers

import (
	"context"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// Handler is the contract every domain parser satisfies. ProcessRaw
// consumes the raw Result rows captured in Phase 1 for one node — for
// most handlers these are the rows of a single (node_id, request_id)
// group; the combined-MAC legacy handler instead receives every raw
// row captured for the node in this task (SPEC_FULL.md §4.2, §4.4).
type Handler interface {
	Name() string
	ProcessRaw(ctx context.Context, node model.Node, request model.Request, journalID int64, raw []model.Result) model.Result
}

// NodeUpdater is the subset of persistence the Health handler needs.
type NodeUpdater interface {
	UpdateNodeHealth(ctx context.Context, nodeID int64, sysName, sysObjectID string) error
}

// InterfaceUpserter is the subset of persistence the Interface
// Discovery handler needs.
type InterfaceUpserter interface {
	UpsertInterfaceBatch(ctx context.Context, rows []model.InterfaceRow) error
}

// ElementLookup resolves a bridge-port number to a logical interface
// row, the join the MAC Table handler needs to populate interface_id.
type ElementLookup interface {
	LookupElementBySNMPID(ctx context.Context, nodeID int64, snmpID int) (elementID int64, found bool, err error)
}

// MacUpserter is the subset of persistence the MAC Table (and
// combined-legacy) handlers need.
type MacUpserter interface {
	UpsertMacBatch(ctx context.Context, rows []model.MacRow) error
}

// ArpUpserter is the subset of persistence the ARP handler needs.
type ArpUpserter interface {
	UpsertArpBatch(ctx context.Context, rows []model.ArpRow) error
	UpsertInterfaceIPBatch(ctx context.Context, rows []model.InterfaceIPRow) error
}

// result builds a success Result; err==nil callers use this, failure
// callers use errorResult. Both centralize the Dt/DurationMS bookkeeping.
func result(node model.Node, requestID, journalID int64, key, val string, start time.Time) model.Result {
	v := val
	return model.Result{
		NodeID:     node.ID,
		RequestID:  requestID,
		JournalID:  journalID,
		Val:        &v,
		Key:        key,
		DurationMS: time.Since(start).Milliseconds(),
		Dt:         time.Now(),
	}
}

func errorResult(node model.Node, requestID, journalID int64, key string, cause error, start time.Time) model.Result {
	msg := cause.Error()
	return model.Result{
		NodeID:     node.ID,
		RequestID:  requestID,
		JournalID:  journalID,
		Key:        key,
		Err:        &msg,
		DurationMS: time.Since(start).Milliseconds(),
		Dt:         time.Now(),
	}
}
