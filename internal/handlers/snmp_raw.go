package handlers

import (
	"context"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// SNMPRaw is handler id 1. Requests bound to it are persisted as raw
// captures only; the task runner does not invoke Phase 2 for handler
// id 1 at all, but the registry still needs an identity entry so an
// unknown-id lookup cannot be confused with "no processing requested"
// (SPEC_FULL.md §6).
type SNMPRaw struct{}

func (h *SNMPRaw) Name() string { return "SNMP" }

func (h *SNMPRaw) ProcessRaw(ctx context.Context, node model.Node, request model.Request, journalID int64, raw []model.Result) model.Result {
	start := time.Now()
	return result(node, request.ID, journalID, "raw_identity", "{}", start)
}
