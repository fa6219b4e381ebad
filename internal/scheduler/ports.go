package scheduler

import (
	"context"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// Store is the subset of internal/store the Scheduler reads from
// directly; everything else a task run needs is internal to the
// TaskRunner it dispatches to.
type Store interface {
	LoadActiveCandidates(ctx context.Context, thisAgent string) ([]model.TaskContext, error)
}

// TaskRunner matches internal/taskrunner.Runner's Run method; the
// Scheduler depends on this narrow interface rather than the concrete
// type so it can be driven by a fake in tests.
type TaskRunner interface {
	Run(ctx context.Context, tc model.TaskContext) error
}
