package handlers

import (
	"context"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// Stub is handler id 99, and also what the factory substitutes for
// every other id when USE_STUB_HANDLERS is set. It performs no I/O and
// always succeeds, which makes it useful for exercising the scheduler
// and task runner against a live device inventory without writing to
// any domain table.
type Stub struct{}

func (h *Stub) Name() string { return "Stub" }

func (h *Stub) ProcessRaw(ctx context.Context, node model.Node, request model.Request, journalID int64, raw []model.Result) model.Result {
	start := time.Now()
	return result(node, request.ID, journalID, "stub", "{}", start)
}
